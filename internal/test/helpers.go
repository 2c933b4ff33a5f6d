package test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

// WithTestNode runs closure against a fresh node served over a local
// listener, with a client already pointed at it.
func WithTestNode(t *testing.T, closure func(node *Node, client *rpc.Client)) {
	t.Helper()

	node := NewNode()
	server := httptest.NewServer(node.Handler())
	defer server.Close()

	client, err := rpc.NewClient(rpc.Config{URLs: []string{server.URL}})
	require.NoError(t, err)
	defer client.Close()

	closure(node, client)
}

// FundedKey derives a deterministic key from seed and funds its account.
func FundedKey(node *Node, seed string, balance uint64) *keypair.KeyPair {
	key := keypair.FromSeed([]byte(seed))
	node.Fund(key.Address(), balance)

	return key
}

// Fund credits an account.
func (n *Node) Fund(addr aether.Address, amount uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.account(addr).balance += amount
}

// Balance reads an account balance without an RPC round trip.
func (n *Node) Balance(addr aether.Address) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.account(addr).balance
}

// HoldReceipts makes getTransactionReceipt report every transaction as
// not yet included until ReleaseReceipts is called.
func (n *Node) HoldReceipts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.holdReceipts = true
}

// ReleaseReceipts undoes HoldReceipts.
func (n *Node) ReleaseReceipts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.holdReceipts = false
}

// DelayReceipt swallows the next probes queries for hash before the
// receipt becomes visible.
func (n *Node) DelayReceipt(hash aether.Hash, probes int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receiptDelays[hash] = probes
}

// SeedJob installs a job fixture directly, bypassing the escrow flow.
func (n *Node) SeedJob(job aether.AIJob) {
	n.mu.Lock()
	defer n.mu.Unlock()

	stored := job
	if _, ok := n.jobs[job.ID]; !ok {
		n.jobOrder = append(n.jobOrder, job.ID)
	}
	n.jobs[job.ID] = &stored
}

// ScriptJobStatuses makes consecutive ai_getJob calls for id walk the
// given statuses; the last one repeats once reached.
func (n *Node) ScriptJobStatuses(id aether.Hash, statuses ...aether.JobStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobScripts[id] = &statusScript{statuses: statuses}
}

// SeedVCR installs a compute receipt fixture for its job id.
func (n *Node) SeedVCR(vcr aether.VerifiableComputeReceipt) {
	n.mu.Lock()
	defer n.mu.Unlock()

	stored := vcr
	n.vcrs[vcr.JobID] = &stored
}

// SetVerification fixes the verdict ai_verifyVCR returns.
func (n *Node) SetVerification(result aether.VerificationResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verify = result
}

// VerifyCalls reports how many times ai_verifyVCR has been invoked.
func (n *Node) VerifyCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.verifyCalls
}

// SetQuorum overrides the governance quorum threshold.
func (n *Node) SetQuorum(quorum uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.quorum = quorum
}

// SetMinimumStake overrides the validator stake floor.
func (n *Node) SetMinimumStake(minimum uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minStake = minimum
}

// SetRewards fixes the pending staking rewards for an account.
func (n *Node) SetRewards(addr aether.Address, amount uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rewards[addr] = amount
}

// SetProposalStatus flips a proposal's lifecycle state, standing in for
// the end-of-window tally a real ledger performs.
func (n *Node) SetProposalStatus(id uint64, status aether.ProposalStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if proposal, ok := n.proposals[id]; ok {
		proposal.Status = status
	}
}

// AdvanceSlot moves the chain clock forward without sealing blocks.
func (n *Node) AdvanceSlot(slots uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.slot += slots
}
