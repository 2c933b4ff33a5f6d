package rpc

import (
	"context"

	"github.com/aetherchain/go-aether/pkg/aether"
)

// Staking queries. The corresponding state mutations are plain
// transactions against the staking contract; see the staking package.

// GetValidator returns the validator registered at address, or
// aether.ErrNotFound.
func (c *Client) GetValidator(ctx context.Context, address aether.Address) (*aether.Validator, error) {
	var validator aether.Validator
	if err := c.callInto(ctx, "staking_getValidator", []any{address}, &validator); err != nil {
		return nil, err
	}
	return &validator, nil
}

// GetValidators returns all active validators.
func (c *Client) GetValidators(ctx context.Context) ([]aether.Validator, error) {
	var validators []aether.Validator
	if err := c.callInto(ctx, "staking_getValidators", nil, &validators); err != nil {
		return nil, err
	}
	return validators, nil
}

// GetDelegation returns the delegation from delegator to validator, or
// aether.ErrNotFound.
func (c *Client) GetDelegation(ctx context.Context, delegator, validator aether.Address) (*aether.Delegation, error) {
	var delegation aether.Delegation
	if err := c.callInto(ctx, "staking_getDelegation", []any{delegator, validator}, &delegation); err != nil {
		return nil, err
	}
	return &delegation, nil
}

// GetDelegations returns every delegation held by delegator.
func (c *Client) GetDelegations(ctx context.Context, delegator aether.Address) ([]aether.Delegation, error) {
	var delegations []aether.Delegation
	if err := c.callInto(ctx, "staking_getDelegations", []any{delegator}, &delegations); err != nil {
		return nil, err
	}
	return delegations, nil
}

// GetPendingRewards returns the unclaimed staking rewards for address.
func (c *Client) GetPendingRewards(ctx context.Context, address aether.Address) (uint64, error) {
	var rewards uint64
	if err := c.callInto(ctx, "staking_getPendingRewards", []any{address}, &rewards); err != nil {
		return 0, err
	}
	return rewards, nil
}

// GetTotalStake returns the total amount staked network wide.
func (c *Client) GetTotalStake(ctx context.Context) (uint64, error) {
	var total uint64
	if err := c.callInto(ctx, "staking_getTotalStake", nil, &total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetMinimumStake returns the minimum stake required to register as a
// validator.
func (c *Client) GetMinimumStake(ctx context.Context) (uint64, error) {
	var minimum uint64
	if err := c.callInto(ctx, "staking_getMinimumStake", nil, &minimum); err != nil {
		return 0, err
	}
	return minimum, nil
}

// Governance queries.

// GetProposal returns the proposal with the given id, or
// aether.ErrNotFound.
func (c *Client) GetProposal(ctx context.Context, id uint64) (*aether.Proposal, error) {
	var proposal aether.Proposal
	if err := c.callInto(ctx, "governance_getProposal", []any{id}, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// GetActiveProposals returns proposals currently open for voting.
func (c *Client) GetActiveProposals(ctx context.Context) ([]aether.Proposal, error) {
	var proposals []aether.Proposal
	if err := c.callInto(ctx, "governance_getActiveProposals", nil, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// GetAllProposals returns every proposal ever created.
func (c *Client) GetAllProposals(ctx context.Context) ([]aether.Proposal, error) {
	var proposals []aether.Proposal
	if err := c.callInto(ctx, "governance_getAllProposals", nil, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// GetVote returns voter's vote on a proposal, or aether.ErrNotFound if
// they have not voted.
func (c *Client) GetVote(ctx context.Context, proposalID uint64, voter aether.Address) (*aether.Vote, error) {
	var vote aether.Vote
	if err := c.callInto(ctx, "governance_getVote", []any{proposalID, voter}, &vote); err != nil {
		return nil, err
	}
	return &vote, nil
}

// GetVotingPower returns the voting power of address.
func (c *Client) GetVotingPower(ctx context.Context, address aether.Address) (uint64, error) {
	var power uint64
	if err := c.callInto(ctx, "governance_getVotingPower", []any{address}, &power); err != nil {
		return 0, err
	}
	return power, nil
}

// GetQuorum returns the vote total a proposal needs to be decidable.
func (c *Client) GetQuorum(ctx context.Context) (uint64, error) {
	var quorum uint64
	if err := c.callInto(ctx, "governance_getQuorum", nil, &quorum); err != nil {
		return 0, err
	}
	return quorum, nil
}
