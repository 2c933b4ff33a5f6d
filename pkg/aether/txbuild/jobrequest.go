package txbuild

import (
	"net/http"
	"strings"

	"github.com/dropbox/godropbox/time2"

	"github.com/aetherchain/go-aether/pkg/aether"
)

// DefaultJobMaxFee caps what a gateway may charge for a job when the
// draft does not set its own ceiling.
const DefaultJobMaxFee uint64 = 1_000_000

// gatewayJobsPath is where provider gateways take job submissions.
const gatewayJobsPath = "/v1/jobs"

// JobRequest is the body of an off-ledger job submission to a provider
// gateway. Only the settlement of such a job ever touches the chain.
type JobRequest struct {
	JobID     string         `json:"job_id"`
	ModelHash aether.Hash    `json:"model_hash"`
	InputHash aether.Hash    `json:"input_hash"`
	MaxFee    uint64         `json:"max_fee"`
	ExpiresAt int64          `json:"expires_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// JobSubmission wraps a JobRequest in the HTTP envelope a gateway
// expects. It is a description of the request, not the request itself;
// callers own the transport.
type JobSubmission struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    JobRequest        `json:"body"`
}

// JobDraft accumulates a gateway job request the way Draft accumulates
// a transaction. Pointer fields distinguish "never set" from a zero
// value.
type JobDraft struct {
	JobID     string
	ModelHash *aether.Hash
	InputHash *aether.Hash
	MaxFee    *uint64 // nil applies DefaultJobMaxFee
	ExpiresAt *int64  // unix seconds, must lie in the future
	Metadata  map[string]any

	// Clock supplies now for the expiry check. Nil means the system
	// clock.
	Clock time2.Clock
}

// BuildJobRequest validates draft and returns the request body. Every
// rejection is a ValidationError naming the offending field.
func BuildJobRequest(draft JobDraft) (*JobRequest, error) {
	if strings.TrimSpace(draft.JobID) == "" {
		return nil, aether.NewValidationError("jobId", "must not be empty")
	}
	if draft.ModelHash == nil {
		return nil, aether.NewValidationError("modelHash", "not set")
	}
	if *draft.ModelHash == (aether.Hash{}) {
		return nil, aether.NewValidationError("modelHash", "zero hash")
	}
	if draft.InputHash == nil {
		return nil, aether.NewValidationError("inputHash", "not set")
	}
	if *draft.InputHash == (aether.Hash{}) {
		return nil, aether.NewValidationError("inputHash", "zero hash")
	}

	maxFee := DefaultJobMaxFee
	if draft.MaxFee != nil {
		if *draft.MaxFee == 0 {
			return nil, aether.NewValidationError("maxFee", "must be positive")
		}
		maxFee = *draft.MaxFee
	}

	if draft.ExpiresAt == nil {
		return nil, aether.NewValidationError("expiresAt", "not set")
	}
	clock := draft.Clock
	if clock == nil {
		clock = time2.DefaultClock
	}
	if *draft.ExpiresAt <= clock.Now().Unix() {
		return nil, aether.NewValidationError("expiresAt", "must lie in the future")
	}

	var meta map[string]any
	if len(draft.Metadata) > 0 {
		meta = make(map[string]any, len(draft.Metadata))
		for k, v := range draft.Metadata {
			meta[k] = v
		}
	}

	return &JobRequest{
		JobID:     draft.JobID,
		ModelHash: *draft.ModelHash,
		InputHash: *draft.InputHash,
		MaxFee:    maxFee,
		ExpiresAt: *draft.ExpiresAt,
		Metadata:  meta,
	}, nil
}

// BuildJobSubmission builds the request body and addresses it to the
// gateway at endpoint. Trailing slashes on endpoint are tolerated.
func BuildJobSubmission(endpoint string, draft JobDraft) (*JobSubmission, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, aether.NewValidationError("endpoint", "must not be empty")
	}

	body, err := BuildJobRequest(draft)
	if err != nil {
		return nil, err
	}

	return &JobSubmission{
		URL:     endpoint + gatewayJobsPath,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    *body,
	}, nil
}
