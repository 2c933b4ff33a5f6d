// Package staking covers validator registration, delegation and reward
// claims against the staking system contract.
package staking

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

// ContractAddress is the staking system contract.
var ContractAddress = common.HexToAddress("0x1000000000000000000000000000000000000001")

// MaxCommission is the upper bound for validator commission, in basis
// points.
const MaxCommission = 10_000

// Service signs staking operations. Plain queries live on rpc.Client.
type Service struct {
	client *rpc.Client
	key    *keypair.KeyPair
	logger zerolog.Logger
}

// NewService wraps client with staking operations signed by key.
func NewService(client *rpc.Client, key *keypair.KeyPair) *Service {
	return &Service{
		client: client,
		key:    key,
		logger: log.With().Str("component", "staking").Logger(),
	}
}

func (s *Service) signingKey() (*keypair.KeyPair, error) {
	if s.key == nil {
		return nil, aether.NewValidationError("key", "service has no signing key")
	}

	return s.key, nil
}

// RegisterValidator builds and signs a validator registration, bonding
// stake at the given commission in basis points. The transaction is
// returned unsubmitted; the ledger enforces the minimum stake.
func (s *Service) RegisterValidator(ctx context.Context, stake uint64, commission uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if stake == 0 {
		return nil, aether.NewValidationError("stake", "must be positive")
	}
	if commission > MaxCommission {
		return nil, aether.NewValidationError("commission", "must be between 0 and %d basis points", MaxCommission)
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("registerValidator", commission)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Uint64("stake", stake).
		Uint64("commission", commission).
		Msg("building validator registration")

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, stake, nonce))
}

// Delegate builds and signs a delegation of amount to validator. The
// amount travels as the transaction value.
func (s *Service) Delegate(ctx context.Context, validator aether.Address, amount uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if validator == (aether.Address{}) {
		return nil, aether.NewValidationError("validator", "zero address")
	}
	if amount == 0 {
		return nil, aether.NewValidationError("amount", "must be positive")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("delegate", aether.AddressHex(validator))
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, amount, nonce))
}

// Undelegate builds and signs a withdrawal of amount from a delegation
// to validator.
func (s *Service) Undelegate(ctx context.Context, validator aether.Address, amount uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if validator == (aether.Address{}) {
		return nil, aether.NewValidationError("validator", "zero address")
	}
	if amount == 0 {
		return nil, aether.NewValidationError("amount", "must be positive")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("undelegate", aether.AddressHex(validator), amount)
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, 0, nonce))
}

// ClaimRewards builds and signs a claim for all pending staking rewards
// of the signing key's account.
func (s *Service) ClaimRewards(ctx context.Context) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("claimRewards")
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(ContractAddress, payload, 0, nonce))
}
