package test

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/aetherchain/go-aether/pkg/aether"
)

func (n *Node) getJob(params []json.RawMessage) (any, *aether.RPCError) {
	var id aether.Hash
	if rpcErr := decodeArgs(params, &id); rpcErr != nil {
		return nil, rpcErr
	}

	job, ok := n.jobs[id]
	if !ok {
		return nil, nil
	}

	if script, scripted := n.jobScripts[id]; scripted {
		job.Status = script.statuses[script.next]
		if script.next < len(script.statuses)-1 {
			script.next++
		}
		job.UpdatedAt = int64(n.slot)
	}

	return job, nil
}

func (n *Node) jobList(keep func(*aether.AIJob) bool) []aether.AIJob {
	jobs := make([]aether.AIJob, 0, len(n.jobOrder))
	for _, id := range n.jobOrder {
		job := n.jobs[id]
		if keep(job) {
			jobs = append(jobs, *job)
		}
	}

	return jobs
}

func (n *Node) getJobsByCreator(params []json.RawMessage) (any, *aether.RPCError) {
	var creator aether.Address
	if rpcErr := decodeArgs(params, &creator); rpcErr != nil {
		return nil, rpcErr
	}

	return n.jobList(func(j *aether.AIJob) bool { return j.Creator == creator }), nil
}

func (n *Node) getJobsByProvider(params []json.RawMessage) (any, *aether.RPCError) {
	var provider aether.Address
	if rpcErr := decodeArgs(params, &provider); rpcErr != nil {
		return nil, rpcErr
	}

	return n.jobList(func(j *aether.AIJob) bool {
		return j.Provider != nil && *j.Provider == provider
	}), nil
}

func (n *Node) getVCR(params []json.RawMessage) (any, *aether.RPCError) {
	var jobID aether.Hash
	if rpcErr := decodeArgs(params, &jobID); rpcErr != nil {
		return nil, rpcErr
	}

	vcr, ok := n.vcrs[jobID]
	if !ok {
		return nil, nil
	}

	return vcr, nil
}

func (n *Node) jobStats() aether.JobStats {
	var stats aether.JobStats
	for _, id := range n.jobOrder {
		job := n.jobs[id]
		stats.TotalJobs++
		stats.TotalAICLocked += job.AICLocked

		switch {
		case job.Status == aether.JobStatusPending:
			stats.PendingJobs++
		case job.Status.Succeeded():
			stats.CompletedJobs++
		case job.Status.Failed():
			stats.ChallengedJobs++
		}
	}

	return stats
}

func (n *Node) getProviderReputation(params []json.RawMessage) (any, *aether.RPCError) {
	var provider aether.Address
	if rpcErr := decodeArgs(params, &provider); rpcErr != nil {
		return nil, rpcErr
	}

	rep := aether.ProviderReputation{AverageTime: 12.5}
	for _, id := range n.jobOrder {
		job := n.jobs[id]
		if job.Provider != nil && *job.Provider == provider && job.Status.Succeeded() {
			rep.CompletedJobs++
		}
	}
	if rep.CompletedJobs > 0 {
		rep.Score = 1.0
	}

	return rep, nil
}

func (n *Node) registerModel(params []json.RawMessage) (any, *aether.RPCError) {
	var (
		hash  aether.Hash
		model aether.ModelInfo
	)
	if rpcErr := decodeArgs(params, &hash, &model); rpcErr != nil {
		return nil, rpcErr
	}

	model.Hash = hash
	model.RegisteredAt = int64(n.slot)
	if _, ok := n.models[hash]; !ok {
		n.modelOrder = append(n.modelOrder, hash)
	}
	n.models[hash] = &model

	return true, nil
}

func (n *Node) getModel(params []json.RawMessage) (any, *aether.RPCError) {
	var hash aether.Hash
	if rpcErr := decodeArgs(params, &hash); rpcErr != nil {
		return nil, rpcErr
	}

	model, ok := n.models[hash]
	if !ok {
		return nil, nil
	}

	return model, nil
}

func (n *Node) getValidator(params []json.RawMessage) (any, *aether.RPCError) {
	var addr aether.Address
	if rpcErr := decodeArgs(params, &addr); rpcErr != nil {
		return nil, rpcErr
	}

	validator, ok := n.validators[addr]
	if !ok {
		return nil, nil
	}

	return validator, nil
}

func (n *Node) validatorList() []aether.Validator {
	validators := make([]aether.Validator, 0, len(n.validators))
	for _, v := range n.validators {
		validators = append(validators, *v)
	}
	sort.Slice(validators, func(i, j int) bool {
		return bytes.Compare(validators[i].Address[:], validators[j].Address[:]) < 0
	})

	return validators
}

func (n *Node) getDelegation(params []json.RawMessage) (any, *aether.RPCError) {
	var delegator, validator aether.Address
	if rpcErr := decodeArgs(params, &delegator, &validator); rpcErr != nil {
		return nil, rpcErr
	}

	delegation, ok := n.delegations[delegationKey{delegator: delegator, validator: validator}]
	if !ok {
		return nil, nil
	}

	return delegation, nil
}

func (n *Node) getDelegations(params []json.RawMessage) (any, *aether.RPCError) {
	var delegator aether.Address
	if rpcErr := decodeArgs(params, &delegator); rpcErr != nil {
		return nil, rpcErr
	}

	delegations := make([]aether.Delegation, 0)
	for key, d := range n.delegations {
		if key.delegator == delegator {
			delegations = append(delegations, *d)
		}
	}
	sort.Slice(delegations, func(i, j int) bool {
		return bytes.Compare(delegations[i].Validator[:], delegations[j].Validator[:]) < 0
	})

	return delegations, nil
}

func (n *Node) getPendingRewards(params []json.RawMessage) (any, *aether.RPCError) {
	var addr aether.Address
	if rpcErr := decodeArgs(params, &addr); rpcErr != nil {
		return nil, rpcErr
	}

	return n.rewards[addr], nil
}

func (n *Node) totalStake() uint64 {
	var total uint64
	for _, v := range n.validators {
		total += v.Stake
	}

	return total
}

func (n *Node) getProposal(params []json.RawMessage) (any, *aether.RPCError) {
	var id uint64
	if rpcErr := decodeArgs(params, &id); rpcErr != nil {
		return nil, rpcErr
	}

	proposal, ok := n.proposals[id]
	if !ok {
		return nil, nil
	}

	return proposal, nil
}

// proposalList returns proposals in id order, filtered by status when one
// is given.
func (n *Node) proposalList(status aether.ProposalStatus) []aether.Proposal {
	proposals := make([]aether.Proposal, 0, len(n.proposals))
	for _, p := range n.proposals {
		if status == "" || p.Status == status {
			proposals = append(proposals, *p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool { return proposals[i].ID < proposals[j].ID })

	return proposals
}

func (n *Node) getVote(params []json.RawMessage) (any, *aether.RPCError) {
	var (
		id    uint64
		voter aether.Address
	)
	if rpcErr := decodeArgs(params, &id, &voter); rpcErr != nil {
		return nil, rpcErr
	}

	vote, ok := n.votes[voteKey{proposal: id, voter: voter}]
	if !ok {
		return nil, nil
	}

	return vote, nil
}

// Voting power in this double is the account balance at query time.
func (n *Node) getVotingPower(params []json.RawMessage) (any, *aether.RPCError) {
	var addr aether.Address
	if rpcErr := decodeArgs(params, &addr); rpcErr != nil {
		return nil, rpcErr
	}

	return n.account(addr).balance, nil
}
