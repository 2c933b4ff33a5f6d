package txbuild_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

func repeatHash(b byte) *aether.Hash {
	var h aether.Hash
	for i := range h {
		h[i] = b
	}

	return &h
}

func jobDraft(clock time2.Clock, expiry int64) txbuild.JobDraft {
	return txbuild.JobDraft{
		JobID:     "hello-aic-job",
		ModelHash: repeatHash(0x12),
		InputHash: repeatHash(0xab),
		ExpiresAt: swag.Int64(expiry),
		Clock:     clock,
	}
}

func TestBuildJobSubmission(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1_700_000_000, 0))
	expiry := clock.Now().Add(time.Hour).Unix()

	draft := jobDraft(clock, expiry)
	draft.MaxFee = swag.Uint64(500_000_000)
	draft.Metadata = map[string]any{
		"prompt":   "Generate a haiku about verifiable compute.",
		"priority": "gold",
	}

	sub, err := txbuild.BuildJobSubmission("https://rpc.aether.local/", draft)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.aether.local/v1/jobs", sub.URL)
	assert.Equal(t, http.MethodPost, sub.Method)
	assert.Equal(t, "application/json", sub.Headers["Content-Type"])
	assert.Equal(t, "hello-aic-job", sub.Body.JobID)
	assert.Equal(t, *repeatHash(0x12), sub.Body.ModelHash)
	assert.Equal(t, uint64(500_000_000), sub.Body.MaxFee)
	assert.Equal(t, expiry, sub.Body.ExpiresAt)
	assert.Equal(t, "gold", sub.Body.Metadata["priority"])
}

func TestBuildJobRequestDefaultsMaxFee(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1_700_000_000, 0))

	req, err := txbuild.BuildJobRequest(jobDraft(clock, clock.Now().Unix()+60))
	require.NoError(t, err)

	assert.Equal(t, txbuild.DefaultJobMaxFee, req.MaxFee)
	assert.Nil(t, req.Metadata)
}

func TestBuildJobRequestWireFormat(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1_700_000_000, 0))
	expiry := clock.Now().Unix() + 3600

	req, err := txbuild.BuildJobRequest(jobDraft(clock, expiry))
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	assert.Equal(t, "hello-aic-job", wire["job_id"])
	assert.Equal(t, "0x"+strings.Repeat("12", 32), wire["model_hash"])
	assert.Equal(t, float64(txbuild.DefaultJobMaxFee), wire["max_fee"])
	assert.Equal(t, float64(expiry), wire["expires_at"])
	// Absent metadata stays off the wire entirely.
	_, present := wire["metadata"]
	assert.False(t, present)
}

func TestBuildJobRequestValidation(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1_700_000_000, 0))
	future := clock.Now().Unix() + 60

	tests := []struct {
		name   string
		mutate func(*txbuild.JobDraft)
		field  string
	}{
		{"blank job id", func(d *txbuild.JobDraft) { d.JobID = "  " }, "jobId"},
		{"missing model hash", func(d *txbuild.JobDraft) { d.ModelHash = nil }, "modelHash"},
		{"zero model hash", func(d *txbuild.JobDraft) { d.ModelHash = &aether.Hash{} }, "modelHash"},
		{"missing input hash", func(d *txbuild.JobDraft) { d.InputHash = nil }, "inputHash"},
		{"zero input hash", func(d *txbuild.JobDraft) { d.InputHash = &aether.Hash{} }, "inputHash"},
		{"zero max fee", func(d *txbuild.JobDraft) { d.MaxFee = swag.Uint64(0) }, "maxFee"},
		{"missing expiry", func(d *txbuild.JobDraft) { d.ExpiresAt = nil }, "expiresAt"},
		{"expiry in the past", func(d *txbuild.JobDraft) { *d.ExpiresAt = clock.Now().Unix() - 1 }, "expiresAt"},
		{"expiry right now", func(d *txbuild.JobDraft) { *d.ExpiresAt = clock.Now().Unix() }, "expiresAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := jobDraft(clock, future)
			tt.mutate(&draft)

			_, err := txbuild.BuildJobRequest(draft)

			var invalid *aether.ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestBuildJobSubmissionRejectsEmptyEndpoint(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1_700_000_000, 0))

	_, err := txbuild.BuildJobSubmission("///", jobDraft(clock, clock.Now().Unix()+60))

	var invalid *aether.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "endpoint", invalid.Field)
}

func TestBuildJobRequestCopiesMetadata(t *testing.T) {
	clock := time2.NewMockClock(time.Unix(1_700_000_000, 0))

	draft := jobDraft(clock, clock.Now().Unix()+60)
	draft.Metadata = map[string]any{"priority": "gold"}

	req, err := txbuild.BuildJobRequest(draft)
	require.NoError(t, err)

	draft.Metadata["priority"] = "bronze"
	assert.Equal(t, "gold", req.Metadata["priority"])
}
