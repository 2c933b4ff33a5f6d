// Package governance covers proposal creation, voting and execution
// against the governance system contract.
package governance

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

// ContractAddress is the governance system contract.
var ContractAddress = common.HexToAddress("0x1000000000000000000000000000000000000002")

// Proposal field bounds and the default voting window in slots.
const (
	MaxTitleLength       = 256
	MaxDescriptionLength = 10_000
	DefaultDuration      = 100_800
)

// Service signs governance operations and derives proposal summaries.
// Plain queries live on rpc.Client.
type Service struct {
	client *rpc.Client
	key    *keypair.KeyPair
	logger zerolog.Logger
}

// NewService wraps client with governance operations signed by key. A
// nil key is fine for HasQuorum and ProposalSummary.
func NewService(client *rpc.Client, key *keypair.KeyPair) *Service {
	return &Service{
		client: client,
		key:    key,
		logger: log.With().Str("component", "governance").Logger(),
	}
}

func (s *Service) signingKey() (*keypair.KeyPair, error) {
	if s.key == nil {
		return nil, aether.NewValidationError("key", "service has no signing key")
	}

	return s.key, nil
}

// CreateProposal builds and signs a new proposal open for the given
// number of slots. A zero duration applies DefaultDuration.
func (s *Service) CreateProposal(ctx context.Context, title, description string, duration uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if len(title) == 0 || len(title) > MaxTitleLength {
		return nil, aether.NewValidationError("title", "must be between 1 and %d characters", MaxTitleLength)
	}
	if len(description) == 0 || len(description) > MaxDescriptionLength {
		return nil, aether.NewValidationError("description", "must be between 1 and %d characters", MaxDescriptionLength)
	}
	if duration == 0 {
		duration = DefaultDuration
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("createProposal", title, description, duration)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("title", title).Uint64("duration", duration).Msg("building proposal")

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, 0, nonce))
}

// Vote builds and signs a vote on proposalID, for when support is true
// and against otherwise.
func (s *Service) Vote(ctx context.Context, proposalID uint64, support bool) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("vote", proposalID, support)
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, 0, nonce))
}

// ExecuteProposal builds and signs the execution of a passed proposal.
// The proposal state is checked first: a missing proposal propagates
// NotFound, and any state other than passed fails with
// RemoteFailureError carrying that state.
func (s *Service) ExecuteProposal(ctx context.Context, proposalID uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}

	proposal, err := s.client.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != aether.ProposalStatusPassed {
		return nil, &aether.RemoteFailureError{
			Op:     "governance proposal",
			ID:     strconv.FormatUint(proposalID, 10),
			State:  string(proposal.Status),
			Reason: "only passed proposals can be executed",
		}
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("executeProposal", proposalID)
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, 0, nonce))
}

// HasQuorum reports whether the votes cast on proposalID meet the
// network quorum threshold.
func (s *Service) HasQuorum(ctx context.Context, proposalID uint64) (bool, error) {
	proposal, err := s.client.GetProposal(ctx, proposalID)
	if err != nil {
		return false, err
	}

	quorum, err := s.client.GetQuorum(ctx)
	if err != nil {
		return false, err
	}

	return proposal.VotesFor+proposal.VotesAgainst >= quorum, nil
}

// Summary is a point-in-time view of a proposal's standing.
type Summary struct {
	Proposal      *aether.Proposal `json:"proposal"`
	HasQuorum     bool             `json:"hasQuorum"`
	TimeRemaining uint64           `json:"timeRemaining"`
	CanExecute    bool             `json:"canExecute"`
}

// ProposalSummary combines the proposal record with quorum standing and
// the slots left in its voting window.
func (s *Service) ProposalSummary(ctx context.Context, proposalID uint64) (*Summary, error) {
	proposal, err := s.client.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	slot, err := s.client.GetSlot(ctx)
	if err != nil {
		return nil, err
	}

	quorum, err := s.client.GetQuorum(ctx)
	if err != nil {
		return nil, err
	}

	var remaining uint64
	if proposal.EndSlot > slot {
		remaining = proposal.EndSlot - slot
	}

	return &Summary{
		Proposal:      proposal,
		HasQuorum:     proposal.VotesFor+proposal.VotesAgainst >= quorum,
		TimeRemaining: remaining,
		CanExecute:    proposal.Status == aether.ProposalStatusPassed,
	}, nil
}
