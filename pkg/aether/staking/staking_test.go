package staking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/staking"
)

// newTestService builds a service whose client points nowhere. The
// tests here exercise only paths that fail before any request is made.
func newTestService(t *testing.T, key *keypair.KeyPair) *staking.Service {
	t.Helper()

	client, err := rpc.NewClient(rpc.Config{URLs: []string{"http://127.0.0.1:1"}})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return staking.NewService(client, key)
}

func TestSigningOperationsRequireKey(t *testing.T) {
	service := newTestService(t, nil)
	ctx := t.Context()
	validator := aether.Address{0x01}

	ops := map[string]func() error{
		"RegisterValidator": func() error {
			_, err := service.RegisterValidator(ctx, 1_000_000, 500)
			return err
		},
		"Delegate": func() error {
			_, err := service.Delegate(ctx, validator, 1000)
			return err
		},
		"Undelegate": func() error {
			_, err := service.Undelegate(ctx, validator, 1000)
			return err
		},
		"ClaimRewards": func() error {
			_, err := service.ClaimRewards(ctx)
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			var invalid *aether.ValidationError
			require.ErrorAs(t, op(), &invalid)
			assert.Equal(t, "key", invalid.Field)
		})
	}
}

func TestSigningOperationValidation(t *testing.T) {
	service := newTestService(t, keypair.FromSeed([]byte("test")))
	ctx := t.Context()
	validator := aether.Address{0x01}

	tests := []struct {
		name      string
		op        func() error
		wantField string
	}{
		{
			name: "register with zero stake",
			op: func() error {
				_, err := service.RegisterValidator(ctx, 0, 500)
				return err
			},
			wantField: "stake",
		},
		{
			name: "register with commission above bound",
			op: func() error {
				_, err := service.RegisterValidator(ctx, 1_000_000, staking.MaxCommission+1)
				return err
			},
			wantField: "commission",
		},
		{
			name: "delegate to zero validator",
			op: func() error {
				_, err := service.Delegate(ctx, aether.Address{}, 1000)
				return err
			},
			wantField: "validator",
		},
		{
			name: "delegate zero amount",
			op: func() error {
				_, err := service.Delegate(ctx, validator, 0)
				return err
			},
			wantField: "amount",
		},
		{
			name: "undelegate from zero validator",
			op: func() error {
				_, err := service.Undelegate(ctx, aether.Address{}, 1000)
				return err
			},
			wantField: "validator",
		},
		{
			name: "undelegate zero amount",
			op: func() error {
				_, err := service.Undelegate(ctx, validator, 0)
				return err
			},
			wantField: "amount",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var invalid *aether.ValidationError
			require.ErrorAs(t, test.op(), &invalid)
			assert.Equal(t, test.wantField, invalid.Field)
		})
	}
}
