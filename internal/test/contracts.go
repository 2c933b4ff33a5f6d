package test

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/ai"
	"github.com/aetherchain/go-aether/pkg/aether/governance"
	"github.com/aetherchain/go-aether/pkg/aether/staking"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

// executeContract runs the system contract a transaction targets, if
// any. Execution errors turn into failed receipts, never into RPC
// errors: by the time a contract runs, the transaction is already in the
// ledger.
func (n *Node) executeContract(tx *aether.Transaction) ([]string, error) {
	switch tx.Recipient {
	case ai.EscrowAddress:
		return n.executeEscrow(tx)
	case staking.ContractAddress:
		return n.executeStaking(tx)
	case governance.ContractAddress:
		return n.executeGovernance(tx)
	default:
		return nil, nil
	}
}

func splitCall(payload []byte) (string, []byte, error) {
	if len(payload) < txbuild.SelectorLength {
		return "", nil, errors.New("call payload shorter than a selector")
	}

	return string(payload[:txbuild.SelectorLength]), payload[txbuild.SelectorLength:], nil
}

// callArgs unmarshals the JSON parameter list that follows a selector.
func callArgs(data []byte, outs ...any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "malformed call parameters")
	}
	if len(raw) != len(outs) {
		return errors.Errorf("expected %d call parameters, got %d", len(outs), len(raw))
	}
	for i, out := range outs {
		if err := json.Unmarshal(raw[i], out); err != nil {
			return errors.Wrapf(err, "call parameter %d", i)
		}
	}

	return nil
}

func (n *Node) executeEscrow(tx *aether.Transaction) ([]string, error) {
	selector, rest, err := splitCall(tx.Payload)
	if err != nil {
		return nil, err
	}

	switch selector {
	case "subm":
		return n.escrowSubmission(tx, rest)
	case "acce":
		return n.escrowAccept(tx, rest)
	case "chal":
		return n.escrowChallenge(tx, rest)
	case "clai":
		return n.escrowClaim(tx, rest)
	default:
		return nil, errors.Errorf("escrow: unknown selector %q", selector)
	}
}

// escrowSubmission handles the shared subm selector: the 32 byte
// identifier names either a registered model (job creation) or an
// existing job (result submission).
func (n *Node) escrowSubmission(tx *aether.Transaction, rest []byte) ([]string, error) {
	if len(rest) < len(aether.Hash{}) {
		return nil, errors.New("escrow: submission shorter than an identifier")
	}

	var id aether.Hash
	copy(id[:], rest)
	blob := append([]byte(nil), rest[len(id):]...)

	if _, ok := n.models[id]; ok {
		return n.createJob(tx, id, blob)
	}
	if job, ok := n.jobs[id]; ok {
		return n.recordResult(tx, job, blob)
	}

	return nil, errors.Errorf("escrow: %s is neither a model nor a job", id.Hex())
}

func (n *Node) createJob(tx *aether.Transaction, modelHash aether.Hash, input []byte) ([]string, error) {
	if tx.Amount == 0 {
		return nil, errors.New("escrow: job submission locks no AIC")
	}

	job := &aether.AIJob{
		ID:        tx.Hash,
		Creator:   tx.Sender,
		ModelHash: modelHash,
		InputData: input,
		AICLocked: tx.Amount,
		Status:    aether.JobStatusPending,
		CreatedAt: int64(n.slot),
		UpdatedAt: int64(n.slot),
	}
	n.jobs[job.ID] = job
	n.jobOrder = append(n.jobOrder, job.ID)

	return []string{"job created: " + job.ID.Hex()}, nil
}

func (n *Node) recordResult(tx *aether.Transaction, job *aether.AIJob, result []byte) ([]string, error) {
	if job.Provider == nil || *job.Provider != tx.Sender {
		return nil, errors.New("escrow: sender is not the assigned provider")
	}
	if job.Status != aether.JobStatusAssigned && job.Status != aether.JobStatusComputing {
		return nil, errors.Errorf("escrow: job is %s, cannot take a result", job.Status)
	}

	job.Result = result
	job.Status = aether.JobStatusCompleted
	job.UpdatedAt = int64(n.slot)

	trace := sha256.Sum256(append([]byte("trace"), result...))
	commitment := sha256.Sum256(append([]byte("kzg"), result...))
	attestation := sha256.Sum256(append([]byte("tee"), result...))

	vcr := &aether.VerifiableComputeReceipt{
		JobID:          job.ID,
		Provider:       tx.Sender,
		Result:         result,
		ExecutionTrace: trace,
		KZGCommitments: []hexutil.Bytes{commitment[:]},
		TEEAttestation: attestation[:],
		Timestamp:      int64(n.slot),
	}
	job.Receipt = vcr
	n.vcrs[job.ID] = vcr

	return []string{"result recorded for " + job.ID.Hex()}, nil
}

func (n *Node) escrowAccept(tx *aether.Transaction, rest []byte) ([]string, error) {
	var jobID aether.Hash
	if err := callArgs(rest, &jobID); err != nil {
		return nil, err
	}

	job, ok := n.jobs[jobID]
	if !ok {
		return nil, errors.Errorf("escrow: unknown job %s", jobID.Hex())
	}
	if job.Status != aether.JobStatusPending {
		return nil, errors.Errorf("escrow: job is %s, not pending", job.Status)
	}

	provider := tx.Sender
	job.Provider = &provider
	job.Status = aether.JobStatusAssigned
	job.UpdatedAt = int64(n.slot)

	return []string{"job accepted by " + aether.AddressHex(provider)}, nil
}

func (n *Node) escrowChallenge(tx *aether.Transaction, rest []byte) ([]string, error) {
	var jobID aether.Hash
	if err := callArgs(rest, &jobID); err != nil {
		return nil, err
	}

	job, ok := n.jobs[jobID]
	if !ok {
		return nil, errors.Errorf("escrow: unknown job %s", jobID.Hex())
	}
	if job.Status != aether.JobStatusCompleted {
		return nil, errors.Errorf("escrow: job is %s, nothing to challenge", job.Status)
	}
	if tx.Amount == 0 {
		return nil, errors.New("escrow: challenge carries no stake")
	}

	job.Status = aether.JobStatusChallenged
	job.UpdatedAt = int64(n.slot)

	return []string{"result challenged"}, nil
}

func (n *Node) escrowClaim(tx *aether.Transaction, rest []byte) ([]string, error) {
	var jobID aether.Hash
	if err := callArgs(rest, &jobID); err != nil {
		return nil, err
	}

	job, ok := n.jobs[jobID]
	if !ok {
		return nil, errors.Errorf("escrow: unknown job %s", jobID.Hex())
	}
	if job.Provider == nil || *job.Provider != tx.Sender {
		return nil, errors.New("escrow: sender is not the assigned provider")
	}
	if !job.Status.Succeeded() {
		return nil, errors.Errorf("escrow: job is %s, nothing to claim", job.Status)
	}
	if job.AICLocked == 0 {
		return nil, errors.New("escrow: payment already claimed")
	}

	n.account(ai.EscrowAddress).balance -= job.AICLocked
	n.account(tx.Sender).balance += job.AICLocked

	job.Status = aether.JobStatusSettled
	job.AICLocked = 0
	job.UpdatedAt = int64(n.slot)

	return []string{"payment claimed"}, nil
}

func (n *Node) executeStaking(tx *aether.Transaction) ([]string, error) {
	selector, rest, err := splitCall(tx.Payload)
	if err != nil {
		return nil, err
	}

	switch selector {
	case "regi":
		return n.stakingRegister(tx, rest)
	case "dele":
		return n.stakingDelegate(tx, rest)
	case "unde":
		return n.stakingUndelegate(tx, rest)
	case "clai":
		return n.stakingClaim(tx)
	default:
		return nil, errors.Errorf("staking: unknown selector %q", selector)
	}
}

func (n *Node) stakingRegister(tx *aether.Transaction, rest []byte) ([]string, error) {
	var commission uint64
	if err := callArgs(rest, &commission); err != nil {
		return nil, err
	}

	if _, ok := n.validators[tx.Sender]; ok {
		return nil, errors.New("staking: validator already registered")
	}
	if tx.Amount < n.minStake {
		return nil, errors.Errorf("staking: stake below minimum %d", n.minStake)
	}

	n.validators[tx.Sender] = &aether.Validator{
		Address:    tx.Sender,
		Stake:      tx.Amount,
		Commission: commission,
		Active:     true,
	}

	return []string{"validator registered"}, nil
}

func (n *Node) stakingDelegate(tx *aether.Transaction, rest []byte) ([]string, error) {
	var validator aether.Address
	if err := callArgs(rest, &validator); err != nil {
		return nil, err
	}

	v, ok := n.validators[validator]
	if !ok {
		return nil, errors.Errorf("staking: unknown validator %s", aether.AddressHex(validator))
	}
	if tx.Amount == 0 {
		return nil, errors.New("staking: delegation carries no value")
	}

	key := delegationKey{delegator: tx.Sender, validator: validator}
	delegation, ok := n.delegations[key]
	if !ok {
		delegation = &aether.Delegation{Delegator: tx.Sender, Validator: validator}
		n.delegations[key] = delegation
		v.Delegators++
	}
	delegation.Amount += tx.Amount
	v.Stake += tx.Amount

	return []string{"delegated"}, nil
}

func (n *Node) stakingUndelegate(tx *aether.Transaction, rest []byte) ([]string, error) {
	var (
		validator aether.Address
		amount    uint64
	)
	if err := callArgs(rest, &validator, &amount); err != nil {
		return nil, err
	}

	key := delegationKey{delegator: tx.Sender, validator: validator}
	delegation, ok := n.delegations[key]
	if !ok {
		return nil, errors.New("staking: no delegation to withdraw from")
	}
	if amount > delegation.Amount {
		return nil, errors.Errorf("staking: undelegating %d of %d", amount, delegation.Amount)
	}

	delegation.Amount -= amount
	n.validators[validator].Stake -= amount
	n.account(tx.Sender).balance += amount

	if delegation.Amount == 0 {
		delete(n.delegations, key)
		n.validators[validator].Delegators--
	}

	return []string{"undelegated"}, nil
}

func (n *Node) stakingClaim(tx *aether.Transaction) ([]string, error) {
	pending := n.rewards[tx.Sender]
	if pending == 0 {
		return nil, errors.New("staking: no pending rewards")
	}

	n.rewards[tx.Sender] = 0
	n.account(tx.Sender).balance += pending

	return []string{"rewards claimed"}, nil
}

func (n *Node) executeGovernance(tx *aether.Transaction) ([]string, error) {
	selector, rest, err := splitCall(tx.Payload)
	if err != nil {
		return nil, err
	}

	switch selector {
	case "crea":
		return n.governanceCreate(tx, rest)
	case "vote":
		return n.governanceVote(tx, rest)
	case "exec":
		return n.governanceExecute(rest)
	default:
		return nil, errors.Errorf("governance: unknown selector %q", selector)
	}
}

func (n *Node) governanceCreate(tx *aether.Transaction, rest []byte) ([]string, error) {
	var (
		title       string
		description string
		duration    uint64
	)
	if err := callArgs(rest, &title, &description, &duration); err != nil {
		return nil, err
	}

	id := n.nextProposal
	n.nextProposal++

	n.proposals[id] = &aether.Proposal{
		ID:          id,
		Proposer:    tx.Sender,
		Title:       title,
		Description: description,
		Status:      aether.ProposalStatusActive,
		StartSlot:   n.slot,
		EndSlot:     n.slot + duration,
	}

	return []string{"proposal created"}, nil
}

func (n *Node) governanceVote(tx *aether.Transaction, rest []byte) ([]string, error) {
	var (
		id      uint64
		support bool
	)
	if err := callArgs(rest, &id, &support); err != nil {
		return nil, err
	}

	proposal, ok := n.proposals[id]
	if !ok {
		return nil, errors.Errorf("governance: unknown proposal %d", id)
	}
	if proposal.Status != aether.ProposalStatusActive {
		return nil, errors.Errorf("governance: proposal is %s, voting closed", proposal.Status)
	}

	key := voteKey{proposal: id, voter: tx.Sender}
	if _, voted := n.votes[key]; voted {
		return nil, errors.New("governance: already voted")
	}

	power := n.account(tx.Sender).balance
	if power == 0 {
		return nil, errors.New("governance: no voting power")
	}

	n.votes[key] = &aether.Vote{ProposalID: id, Voter: tx.Sender, Support: support, Power: power}
	if support {
		proposal.VotesFor += power
	} else {
		proposal.VotesAgainst += power
	}

	return []string{"vote recorded"}, nil
}

func (n *Node) governanceExecute(rest []byte) ([]string, error) {
	var id uint64
	if err := callArgs(rest, &id); err != nil {
		return nil, err
	}

	proposal, ok := n.proposals[id]
	if !ok {
		return nil, errors.Errorf("governance: unknown proposal %d", id)
	}
	if proposal.Status != aether.ProposalStatusPassed {
		return nil, errors.Errorf("governance: proposal is %s, cannot execute", proposal.Status)
	}

	proposal.Status = aether.ProposalStatusExecuted

	return []string{"proposal executed"}, nil
}
