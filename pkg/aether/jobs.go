package aether

import "github.com/ethereum/go-ethereum/common/hexutil"

// JobStatus is the lifecycle state of an AI compute job. The legal
// progression is pending -> assigned -> computing -> completed or
// challenged -> settled. Completed and settled both mean the result is
// final and usable; challenged is a failure state from the submitter's
// point of view even though settlement may still follow.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusComputing  JobStatus = "computing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusChallenged JobStatus = "challenged"
	JobStatusSettled    JobStatus = "settled"
)

// Known reports whether s is one of the defined lifecycle states.
func (s JobStatus) Known() bool {
	switch s {
	case JobStatusPending, JobStatusAssigned, JobStatusComputing,
		JobStatusCompleted, JobStatusChallenged, JobStatusSettled:
		return true
	}
	return false
}

// Succeeded reports whether s means the job result is final and usable.
func (s JobStatus) Succeeded() bool {
	return s == JobStatusCompleted || s == JobStatusSettled
}

// Failed reports whether s is a failure state.
func (s JobStatus) Failed() bool {
	return s == JobStatusChallenged
}

// CanTransitionTo reports whether next is a legal lifecycle step from s.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusAssigned
	case JobStatusAssigned:
		return next == JobStatusComputing
	case JobStatusComputing:
		return next == JobStatusCompleted || next == JobStatusChallenged
	case JobStatusCompleted, JobStatusChallenged:
		return next == JobStatusSettled
	default:
		return false
	}
}

// AIJob is the node's view of a compute job. Provider, Result and Receipt
// are filled in as the lifecycle advances; AICLocked is the escrow amount
// locked at submission.
type AIJob struct {
	ID        Hash                      `json:"id"`
	Creator   Address                   `json:"creator"`
	ModelHash Hash                      `json:"modelHash"`
	InputData hexutil.Bytes             `json:"inputData,omitempty"`
	AICLocked uint64                    `json:"aicLocked"`
	Status    JobStatus                 `json:"status"`
	Provider  *Address                  `json:"provider,omitempty"`
	Result    hexutil.Bytes             `json:"result,omitempty"`
	Receipt   *VerifiableComputeReceipt `json:"receipt,omitempty"`
	CreatedAt int64                     `json:"createdAt,omitempty"`
	UpdatedAt int64                     `json:"updatedAt,omitempty"`
}

// VerifiableComputeReceipt is a provider's proof-carrying claim about a
// job execution. It is only meaningful paired with the job it references;
// cryptographic checking of the commitments and the attestation happens on
// the node.
type VerifiableComputeReceipt struct {
	JobID          Hash            `json:"jobId"`
	Provider       Address         `json:"provider"`
	Result         hexutil.Bytes   `json:"result"`
	ExecutionTrace Hash            `json:"executionTrace"`
	KZGCommitments []hexutil.Bytes `json:"kzgCommitments,omitempty"`
	TEEAttestation hexutil.Bytes   `json:"teeAttestation,omitempty"`
	Timestamp      int64           `json:"timestamp"`
}

// VerificationResult is the node's verdict on a receipt. The three
// dimensions are reported independently and never collapsed: a receipt can
// carry a valid TEE attestation and still fail the KZG check.
type VerificationResult struct {
	Valid    bool `json:"valid"`
	KZGValid bool `json:"kzg_valid"`
	TEEValid bool `json:"tee_valid"`
}

// JobStats is an aggregate view over the job escrow.
type JobStats struct {
	TotalJobs      uint64 `json:"totalJobs"`
	PendingJobs    uint64 `json:"pendingJobs"`
	CompletedJobs  uint64 `json:"completedJobs"`
	ChallengedJobs uint64 `json:"challengedJobs,omitempty"`
	TotalAICLocked uint64 `json:"totalAicLocked,omitempty"`
}

// ProviderReputation is the network's scoring of a compute provider.
// AverageTime is in seconds.
type ProviderReputation struct {
	Score         float64 `json:"score"`
	CompletedJobs uint64  `json:"completedJobs"`
	AverageTime   float64 `json:"averageTime"`
}

// ModelInfo describes a model registered with the network's model registry.
type ModelInfo struct {
	Hash         Hash    `json:"hash"`
	Name         string  `json:"name"`
	Owner        Address `json:"owner"`
	SizeBytes    uint64  `json:"sizeBytes,omitempty"`
	RegisteredAt int64   `json:"registeredAt,omitempty"`
}
