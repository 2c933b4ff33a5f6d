package governance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/internal/test"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/governance"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

const voterFunds = 10_000_000

func submitOK(t *testing.T, client *rpc.Client, tx *aether.Transaction) {
	t.Helper()

	hash, err := client.SubmitTransaction(t.Context(), tx)
	require.NoError(t, err)

	receipt, err := client.WaitForReceipt(t.Context(), hash, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	require.True(t, receipt.Succeeded(), "logs: %v", receipt.Logs)
}

func TestGovernanceLifecycle(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		ctx := t.Context()

		proposer := test.FundedKey(node, "proposer", 30_000_000)
		voter := test.FundedKey(node, "voter", voterFunds)

		proposerSvc := governance.NewService(client, proposer)
		voterSvc := governance.NewService(client, voter)

		createTx, err := proposerSvc.CreateProposal(ctx, "Raise the escrow challenge window", "Give verifiers more slots to dispute results.", 500)
		require.NoError(t, err)
		submitOK(t, client, createTx)

		proposal, err := client.GetProposal(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, proposer.Address(), proposal.Proposer)
		assert.Equal(t, "Raise the escrow challenge window", proposal.Title)
		assert.Equal(t, aether.ProposalStatusActive, proposal.Status)
		assert.Equal(t, proposal.StartSlot+500, proposal.EndSlot)

		active, err := client.GetActiveProposals(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		// Voting power is the voter's balance when the vote lands.
		voteTx, err := voterSvc.Vote(ctx, 1, true)
		require.NoError(t, err)
		submitOK(t, client, voteTx)

		vote, err := client.GetVote(ctx, 1, voter.Address())
		require.NoError(t, err)
		assert.True(t, vote.Support)
		assert.Equal(t, uint64(voterFunds)-voteTx.Fee, vote.Power)

		proposal, err = client.GetProposal(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, vote.Power, proposal.VotesFor)
		assert.Equal(t, uint64(0), proposal.VotesAgainst)

		ok, err := voterSvc.HasQuorum(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		// One account, one vote.
		voteTx, err = voterSvc.Vote(ctx, 1, false)
		require.NoError(t, err)
		hash, err := client.SubmitTransaction(ctx, voteTx)
		require.NoError(t, err)

		var remote *aether.RemoteFailureError
		_, err = client.WaitForReceipt(ctx, hash, 10*time.Millisecond, time.Second)
		require.ErrorAs(t, err, &remote)

		// Still active: execution is refused before anything is signed.
		_, err = proposerSvc.ExecuteProposal(ctx, 1)
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, string(aether.ProposalStatusActive), remote.State)

		node.SetProposalStatus(1, aether.ProposalStatusPassed)

		summary, err := proposerSvc.ProposalSummary(ctx, 1)
		require.NoError(t, err)
		assert.True(t, summary.HasQuorum)
		assert.True(t, summary.CanExecute)
		assert.Positive(t, summary.TimeRemaining)

		executeTx, err := proposerSvc.ExecuteProposal(ctx, 1)
		require.NoError(t, err)
		submitOK(t, client, executeTx)

		proposal, err = client.GetProposal(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, aether.ProposalStatusExecuted, proposal.Status)

		// Past the voting window nothing remains.
		node.AdvanceSlot(600)
		summary, err = proposerSvc.ProposalSummary(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, summary.TimeRemaining)
		assert.False(t, summary.CanExecute)
	})
}

func TestQuorumThreshold(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		ctx := t.Context()

		proposer := test.FundedKey(node, "proposer", 30_000_000)
		voter := test.FundedKey(node, "voter", voterFunds)

		proposerSvc := governance.NewService(client, proposer)
		voterSvc := governance.NewService(client, voter)

		createTx, err := proposerSvc.CreateProposal(ctx, "Adjust verifier rewards", "Rebalance payout weights.", 0)
		require.NoError(t, err)
		submitOK(t, client, createTx)

		node.SetQuorum(100_000_000)

		voteTx, err := voterSvc.Vote(ctx, 1, true)
		require.NoError(t, err)
		submitOK(t, client, voteTx)

		ok, err := voterSvc.HasQuorum(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		node.SetQuorum(1)

		ok, err = voterSvc.HasQuorum(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		power, err := client.GetVotingPower(ctx, voter.Address())
		require.NoError(t, err)
		assert.Equal(t, uint64(voterFunds)-voteTx.Fee, power)
	})
}

func TestExecuteMissingProposal(t *testing.T) {
	test.WithTestNode(t, func(node *test.Node, client *rpc.Client) {
		proposer := test.FundedKey(node, "proposer", 30_000_000)
		svc := governance.NewService(client, proposer)

		_, err := svc.ExecuteProposal(t.Context(), 99)

		require.ErrorIs(t, err, aether.ErrNotFound)
	})
}
