package aether

// Validator is a registered block producer. Commission is in basis points
// of earned rewards (0..10000).
type Validator struct {
	Address    Address `json:"address"`
	Stake      uint64  `json:"stake"`
	Commission uint64  `json:"commission"`
	Active     bool    `json:"active"`
	Delegators uint64  `json:"delegators,omitempty"`
}

// Delegation is stake delegated by an account to a validator.
type Delegation struct {
	Delegator Address `json:"delegator"`
	Validator Address `json:"validator"`
	Amount    uint64  `json:"amount"`
	Rewards   uint64  `json:"rewards,omitempty"`
}

// ProposalStatus is the lifecycle state of a governance proposal.
type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusPassed   ProposalStatus = "passed"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExecuted ProposalStatus = "executed"
)

// Proposal is a governance proposal. Voting runs from StartSlot to
// EndSlot; only proposals in the passed state can be executed.
type Proposal struct {
	ID           uint64         `json:"id"`
	Proposer     Address        `json:"proposer"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       ProposalStatus `json:"status"`
	VotesFor     uint64         `json:"votesFor"`
	VotesAgainst uint64         `json:"votesAgainst"`
	StartSlot    uint64         `json:"startSlot"`
	EndSlot      uint64         `json:"endSlot"`
}

// Vote is a recorded vote on a proposal, weighted by Power.
type Vote struct {
	ProposalID uint64  `json:"proposalId"`
	Voter      Address `json:"voter"`
	Support    bool    `json:"support"`
	Power      uint64  `json:"power"`
}
