package staking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/internal/test"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/staking"
)

func submitOK(t *testing.T, client *rpc.Client, tx *aether.Transaction) {
	t.Helper()

	hash, err := client.SubmitTransaction(t.Context(), tx)
	require.NoError(t, err)

	receipt, err := client.WaitForReceipt(t.Context(), hash, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	require.True(t, receipt.Succeeded(), "logs: %v", receipt.Logs)
}

func TestStakingLifecycle(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		ctx := t.Context()

		validator := test.FundedKey(node, "validator", 50_000_000)
		delegator := test.FundedKey(node, "delegator", 20_000_000)

		validatorSvc := staking.NewService(client, validator)
		delegatorSvc := staking.NewService(client, delegator)

		registerTx, err := validatorSvc.RegisterValidator(ctx, 5_000, 500)
		require.NoError(t, err)
		submitOK(t, client, registerTx)

		v, err := client.GetValidator(ctx, validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000), v.Stake)
		assert.Equal(t, uint64(500), v.Commission)
		assert.True(t, v.Active)

		validators, err := client.GetValidators(ctx)
		require.NoError(t, err)
		assert.Len(t, validators, 1)

		total, err := client.GetTotalStake(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000), total)

		// Delegation rides on the transaction value.
		delegateTx, err := delegatorSvc.Delegate(ctx, validator.Address(), 2_000)
		require.NoError(t, err)
		submitOK(t, client, delegateTx)

		delegation, err := client.GetDelegation(ctx, delegator.Address(), validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(2_000), delegation.Amount)

		v, err = client.GetValidator(ctx, validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(7_000), v.Stake)
		assert.Equal(t, uint64(1), v.Delegators)

		delegations, err := client.GetDelegations(ctx, delegator.Address())
		require.NoError(t, err)
		assert.Len(t, delegations, 1)

		// Partial withdrawal returns funds to the delegator.
		before := node.Balance(delegator.Address())
		undelegateTx, err := delegatorSvc.Undelegate(ctx, validator.Address(), 800)
		require.NoError(t, err)
		submitOK(t, client, undelegateTx)

		assert.Equal(t, before-undelegateTx.Fee+800, node.Balance(delegator.Address()))

		delegation, err = client.GetDelegation(ctx, delegator.Address(), validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(1_200), delegation.Amount)

		// Withdrawing the rest removes the delegation entirely.
		undelegateTx, err = delegatorSvc.Undelegate(ctx, validator.Address(), 1_200)
		require.NoError(t, err)
		submitOK(t, client, undelegateTx)

		_, err = client.GetDelegation(ctx, delegator.Address(), validator.Address())
		require.ErrorIs(t, err, aether.ErrNotFound)

		v, err = client.GetValidator(ctx, validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000), v.Stake)
		assert.Equal(t, uint64(0), v.Delegators)
	})
}

func TestClaimRewards(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		ctx := t.Context()

		validator := test.FundedKey(node, "validator", 50_000_000)
		svc := staking.NewService(client, validator)

		node.SetRewards(validator.Address(), 3_000)

		pending, err := client.GetPendingRewards(ctx, validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(3_000), pending)

		before := node.Balance(validator.Address())
		claimTx, err := svc.ClaimRewards(ctx)
		require.NoError(t, err)
		submitOK(t, client, claimTx)

		assert.Equal(t, before-claimTx.Fee+3_000, node.Balance(validator.Address()))

		pending, err = client.GetPendingRewards(ctx, validator.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(0), pending)

		// Nothing left: a second claim fails on the node.
		claimTx, err = svc.ClaimRewards(ctx)
		require.NoError(t, err)
		hash, err := client.SubmitTransaction(ctx, claimTx)
		require.NoError(t, err)

		_, err = client.WaitForReceipt(ctx, hash, 10*time.Millisecond, time.Second)

		var remote *aether.RemoteFailureError
		require.ErrorAs(t, err, &remote)
	})
}

func TestRegisterValidatorBelowMinimum(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		ctx := t.Context()

		node.SetMinimumStake(1_000_000)

		minimum, err := client.GetMinimumStake(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000), minimum)

		validator := test.FundedKey(node, "validator", 50_000_000)
		svc := staking.NewService(client, validator)

		registerTx, err := svc.RegisterValidator(ctx, 5_000, 500)
		require.NoError(t, err)
		hash, err := client.SubmitTransaction(ctx, registerTx)
		require.NoError(t, err)

		_, err = client.WaitForReceipt(ctx, hash, 10*time.Millisecond, time.Second)

		var remote *aether.RemoteFailureError
		require.ErrorAs(t, err, &remote)

		_, err = client.GetValidator(ctx, validator.Address())
		require.ErrorIs(t, err, aether.ErrNotFound)
	})
}

func TestRegisterValidatorTwice(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		ctx := t.Context()

		validator := test.FundedKey(node, "validator", 50_000_000)
		svc := staking.NewService(client, validator)

		registerTx, err := svc.RegisterValidator(ctx, 5_000, 500)
		require.NoError(t, err)
		submitOK(t, client, registerTx)

		registerTx, err = svc.RegisterValidator(ctx, 5_000, 500)
		require.NoError(t, err)
		hash, err := client.SubmitTransaction(ctx, registerTx)
		require.NoError(t, err)

		_, err = client.WaitForReceipt(ctx, hash, 10*time.Millisecond, time.Second)

		var remote *aether.RemoteFailureError
		require.ErrorAs(t, err, &remote)
	})
}
