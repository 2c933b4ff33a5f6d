// Package ai drives the AI compute marketplace: escrow-backed job
// submission, the provider-side result flow, receipt verification and
// job completion tracking.
package ai

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/track"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

// EscrowAddress is the job escrow system contract. Jobs are created,
// accepted, resolved and settled through calls to this address.
var EscrowAddress = common.HexToAddress("0x1000000000000000000000000000000000000003")

// Polling defaults for WaitForJob. Compute jobs settle on provider
// timescales, so the budget is far wider than for plain transfers.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultWaitTimeout  = 5 * time.Minute
)

// Service signs and tracks job operations against the escrow contract.
// Plain queries live on rpc.Client; the Service owns everything that
// needs a signing key or a wait loop. A nil key is fine for
// VerifyReceipt and WaitForJob.
type Service struct {
	client *rpc.Client
	key    *keypair.KeyPair
	logger zerolog.Logger
}

// NewService wraps client with job marketplace operations signed by key.
func NewService(client *rpc.Client, key *keypair.KeyPair) *Service {
	return &Service{
		client: client,
		key:    key,
		logger: log.With().Str("component", "ai").Logger(),
	}
}

func (s *Service) signingKey() (*keypair.KeyPair, error) {
	if s.key == nil {
		return nil, aether.NewValidationError("key", "service has no signing key")
	}

	return s.key, nil
}

// SubmitJob builds and signs a transaction creating a compute job for
// modelHash, locking aicAmount in escrow. The transaction is returned
// unsubmitted; send it with rpc.Client.SubmitTransaction. The job id is
// the hash of the submission transaction.
func (s *Service) SubmitJob(ctx context.Context, modelHash aether.Hash, input []byte, aicAmount uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if modelHash == (aether.Hash{}) {
		return nil, aether.NewValidationError("modelHash", "zero hash")
	}
	if aicAmount == 0 {
		return nil, aether.NewValidationError("aicAmount", "must be positive")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	s.logger.Debug().
		Stringer("model", modelHash).
		Uint64("aic", aicAmount).
		Msg("building job submission")

	return txbuild.Build(key, txbuild.Call(EscrowAddress, encodeJobSubmission(modelHash, input), aicAmount, nonce))
}

// AcceptJob builds and signs the provider's claim on a pending job.
func (s *Service) AcceptJob(ctx context.Context, jobID aether.Hash) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if jobID == (aether.Hash{}) {
		return nil, aether.NewValidationError("jobId", "zero hash")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("acceptJob", jobID.Hex())
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(EscrowAddress, payload, 0, nonce))
}

// SubmitResult builds and signs the provider's result submission for
// jobID. The ledger records the verifiable compute receipt as part of
// settlement; fetch it afterwards with rpc.Client.GetVCR.
func (s *Service) SubmitResult(ctx context.Context, jobID aether.Hash, result []byte) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if jobID == (aether.Hash{}) {
		return nil, aether.NewValidationError("jobId", "zero hash")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	return txbuild.Build(key, txbuild.Call(EscrowAddress, encodeResultSubmission(jobID, result), 0, nonce))
}

// ChallengeResult builds and signs a challenge against a submitted
// result, staking challengeStake on the dispute.
func (s *Service) ChallengeResult(ctx context.Context, jobID aether.Hash, challengeStake uint64) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if jobID == (aether.Hash{}) {
		return nil, aether.NewValidationError("jobId", "zero hash")
	}
	if challengeStake == 0 {
		return nil, aether.NewValidationError("challengeStake", "must be positive")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("challengeResult", jobID.Hex())
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(EscrowAddress, payload, challengeStake, nonce))
}

// ClaimPayment builds and signs the provider's payout claim for a
// settled job.
func (s *Service) ClaimPayment(ctx context.Context, jobID aether.Hash) (*aether.Transaction, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	if jobID == (aether.Hash{}) {
		return nil, aether.NewValidationError("jobId", "zero hash")
	}

	nonce, err := s.client.GetNonce(ctx, key.Address())
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch nonce")
	}

	payload, err := txbuild.EncodeCall("claimPayment", jobID.Hex())
	if err != nil {
		return nil, err
	}

	return txbuild.Build(key, txbuild.Call(EscrowAddress, payload, 0, nonce))
}

// CrossCheck verifies that vcr is bound to job: the receipt's job id
// must match, its provider must be the job's assigned provider, and
// when the job already records result bytes the receipt's result must
// digest to the same value. A receipt failing any of these checks is
// rejected without consulting the remote proof verifier.
func CrossCheck(job *aether.AIJob, vcr *aether.VerifiableComputeReceipt) error {
	if job == nil {
		return aether.NewValidationError("job", "missing")
	}
	if vcr == nil {
		return aether.NewValidationError("vcr", "missing")
	}
	if vcr.JobID != job.ID {
		return aether.NewValidationError("jobId", "receipt bound to %s, job is %s", vcr.JobID.Hex(), job.ID.Hex())
	}
	if job.Provider == nil {
		return aether.NewValidationError("provider", "job has no assigned provider")
	}
	if vcr.Provider != *job.Provider {
		return aether.NewValidationError("provider", "receipt from %s, job assigned to %s",
			aether.AddressHex(vcr.Provider), aether.AddressHex(*job.Provider))
	}
	if len(job.Result) > 0 && sha256.Sum256(vcr.Result) != sha256.Sum256(job.Result) {
		return aether.NewValidationError("result", "digest does not match the job's recorded result")
	}

	return nil
}

// VerifyReceipt cross-checks vcr against job locally and only then asks
// the remote verifier to check the KZG and TEE proofs. The three
// validity flags come back independently so a caller can tell a failed
// proof from a missing attestation.
func (s *Service) VerifyReceipt(ctx context.Context, job *aether.AIJob, vcr *aether.VerifiableComputeReceipt) (*aether.VerificationResult, error) {
	if err := CrossCheck(job, vcr); err != nil {
		return nil, err
	}

	return s.client.VerifyVCR(ctx, vcr)
}

// WaitForJob polls jobID until the job reaches completed or settled and
// returns the final record. A challenged job fails immediately with
// RemoteFailureError. Zero interval or timeout apply the package
// defaults.
func (s *Service) WaitForJob(ctx context.Context, jobID aether.Hash, interval, timeout time.Duration) (*aether.AIJob, error) {
	if jobID == (aether.Hash{}) {
		return nil, aether.NewValidationError("jobId", "zero hash")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	cfg := track.Config{
		Op:       "ai job",
		ID:       jobID.Hex(),
		Interval: interval,
		Timeout:  timeout,
	}

	probe := func(ctx context.Context) (*aether.AIJob, error) {
		return s.client.GetJob(ctx, jobID)
	}

	return track.Wait(ctx, cfg, probe, classifyJob)
}

func classifyJob(job *aether.AIJob) track.Verdict {
	switch {
	case job.Status.Succeeded():
		return track.Succeeded()
	case job.Status.Failed():
		return track.Failed(string(job.Status), "result challenged")
	default:
		return track.Pending()
	}
}

// Call payload selectors are the first four bytes of the contract
// method name. submitJob and submitResult therefore share the subm
// selector; the escrow contract distinguishes them by what the 32 byte
// identifier resolves to.

func encodeJobSubmission(modelHash aether.Hash, input []byte) []byte {
	payload := make([]byte, 0, txbuild.SelectorLength+len(modelHash)+len(input))
	payload = append(payload, "submitJob"[:txbuild.SelectorLength]...)
	payload = append(payload, modelHash[:]...)

	return append(payload, input...)
}

func encodeResultSubmission(jobID aether.Hash, result []byte) []byte {
	payload := make([]byte, 0, txbuild.SelectorLength+len(jobID)+len(result))
	payload = append(payload, "submitResult"[:txbuild.SelectorLength]...)
	payload = append(payload, jobID[:]...)

	return append(payload, result...)
}
