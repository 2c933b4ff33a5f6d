package governance_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/governance"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

// newTestService builds a service whose client points nowhere. The
// tests here exercise only paths that fail before any request is made.
func newTestService(t *testing.T, key *keypair.KeyPair) *governance.Service {
	t.Helper()

	client, err := rpc.NewClient(rpc.Config{URLs: []string{"http://127.0.0.1:1"}})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return governance.NewService(client, key)
}

func TestSigningOperationsRequireKey(t *testing.T) {
	service := newTestService(t, nil)
	ctx := t.Context()

	ops := map[string]func() error{
		"CreateProposal": func() error {
			_, err := service.CreateProposal(ctx, "raise quorum", "details", 0)
			return err
		},
		"Vote": func() error {
			_, err := service.Vote(ctx, 1, true)
			return err
		},
		"ExecuteProposal": func() error {
			_, err := service.ExecuteProposal(ctx, 1)
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

func TestCreateProposalValidation(t *testing.T) {
	service := newTestService(t, keypair.FromSeed([]byte("test")))
	ctx := t.Context()

	tests := []struct {
		name        string
		title       string
		description string
		wantField   string
	}{
		{
			name:        "empty title",
			title:       "",
			description: "details",
			wantField:   "title",
		},
		{
			name:        "oversized title",
			title:       strings.Repeat("t", governance.MaxTitleLength+1),
			description: "details",
			wantField:   "title",
		},
		{
			name:        "empty description",
			title:       "raise quorum",
			description: "",
			wantField:   "description",
		},
		{
			name:        "oversized description",
			title:       "raise quorum",
			description: strings.Repeat("d", governance.MaxDescriptionLength+1),
			wantField:   "description",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := service.CreateProposal(ctx, test.title, test.description, 0)
			require.Error(t, err)

			var invalid *aether.ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, test.wantField, invalid.Field)
		})
	}
}
