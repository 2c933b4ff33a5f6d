package ai_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/ai"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

// newTestService builds a service whose client points nowhere. The
// tests here exercise only paths that fail before any request is made.
func newTestService(t *testing.T, key *keypair.KeyPair) *ai.Service {
	t.Helper()

	client, err := rpc.NewClient(rpc.Config{URLs: []string{"http://127.0.0.1:1"}})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return ai.NewService(client, key)
}

func boundReceipt() (*aether.AIJob, *aether.VerifiableComputeReceipt) {
	provider := aether.Address{0x11}
	jobID := aether.Hash{0x01}
	result := hexutil.Bytes{0xca, 0xfe}

	job := &aether.AIJob{
		ID:       jobID,
		Status:   aether.JobStatusSettled,
		Provider: &provider,
		Result:   result,
	}
	vcr := &aether.VerifiableComputeReceipt{
		JobID:    jobID,
		Provider: provider,
		Result:   result,
	}

	return job, vcr
}

func TestCrossCheckAcceptsBoundReceipt(t *testing.T) {
	job, vcr := boundReceipt()
	require.NoError(t, ai.CrossCheck(job, vcr))
}

func TestCrossCheckSkipsResultWhenJobRecordsNone(t *testing.T) {
	job, vcr := boundReceipt()
	job.Result = nil
	vcr.Result = hexutil.Bytes{0x99}

	require.NoError(t, ai.CrossCheck(job, vcr))
}

func TestCrossCheckRejections(t *testing.T) {
	otherProvider := aether.Address{0x22}

	tests := []struct {
		name      string
		mutate    func(*aether.AIJob, *aether.VerifiableComputeReceipt)
		wantField string
	}{
		{
			name:      "job id mismatch",
			mutate:    func(_ *aether.AIJob, v *aether.VerifiableComputeReceipt) { v.JobID = aether.Hash{0x02} },
			wantField: "jobId",
		},
		{
			name:      "provider mismatch",
			mutate:    func(_ *aether.AIJob, v *aether.VerifiableComputeReceipt) { v.Provider = otherProvider },
			wantField: "provider",
		},
		{
			name:      "job without assigned provider",
			mutate:    func(j *aether.AIJob, _ *aether.VerifiableComputeReceipt) { j.Provider = nil },
			wantField: "provider",
		},
		{
			name:      "result digest mismatch",
			mutate:    func(_ *aether.AIJob, v *aether.VerifiableComputeReceipt) { v.Result = hexutil.Bytes{0xff} },
			wantField: "result",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			job, vcr := boundReceipt()
			test.mutate(job, vcr)

			err := ai.CrossCheck(job, vcr)
			require.Error(t, err)

			var invalid *aether.ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, test.wantField, invalid.Field)
		})
	}
}

func TestCrossCheckRejectsMissingArguments(t *testing.T) {
	job, vcr := boundReceipt()

	var invalid *aether.ValidationError

	require.ErrorAs(t, ai.CrossCheck(nil, vcr), &invalid)
	assert.Equal(t, "job", invalid.Field)

	require.ErrorAs(t, ai.CrossCheck(job, nil), &invalid)
	assert.Equal(t, "vcr", invalid.Field)
}

// VerifyReceipt must reject a mismatched receipt before reaching the
// remote verifier; the unreachable client proves no request goes out.
func TestVerifyReceiptRejectsLocallyFirst(t *testing.T) {
	service := newTestService(t, nil)

	job, vcr := boundReceipt()
	vcr.JobID = aether.Hash{0xde}

	result, err := service.VerifyReceipt(t.Context(), job, vcr)
	require.Error(t, err)
	assert.Nil(t, result)

	var invalid *aether.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "jobId", invalid.Field)
}

func TestSigningOperationsRequireKey(t *testing.T) {
	service := newTestService(t, nil)
	ctx := t.Context()
	jobID := aether.Hash{0x01}

	ops := map[string]func() error{
		"SubmitJob": func() error {
			_, err := service.SubmitJob(ctx, aether.Hash{0x0a}, []byte("in"), 10)
			return err
		},
		"AcceptJob": func() error {
			_, err := service.AcceptJob(ctx, jobID)
			return err
		},
		"SubmitResult": func() error {
			_, err := service.SubmitResult(ctx, jobID, []byte("out"))
			return err
		},
		"ChallengeResult": func() error {
			_, err := service.ChallengeResult(ctx, jobID, 100)
			return err
		},
		"ClaimPayment": func() error {
			_, err := service.ClaimPayment(ctx, jobID)
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			var invalid *aether.ValidationError
			require.ErrorAs(t, op(), &invalid)
			assert.Equal(t, "key", invalid.Field)
		})
	}
}

func TestSigningOperationValidation(t *testing.T) {
	service := newTestService(t, keypair.FromSeed([]byte("test")))
	ctx := t.Context()

	tests := []struct {
		name      string
		op        func() error
		wantField string
	}{
		{
			name: "submit job zero model",
			op: func() error {
				_, err := service.SubmitJob(ctx, aether.Hash{}, []byte("in"), 10)
				return err
			},
			wantField: "modelHash",
		},
		{
			name: "submit job zero amount",
			op: func() error {
				_, err := service.SubmitJob(ctx, aether.Hash{0x0a}, []byte("in"), 0)
				return err
			},
			wantField: "aicAmount",
		},
		{
			name: "accept job zero id",
			op: func() error {
				_, err := service.AcceptJob(ctx, aether.Hash{})
				return err
			},
			wantField: "jobId",
		},
		{
			name: "submit result zero id",
			op: func() error {
				_, err := service.SubmitResult(ctx, aether.Hash{}, []byte("out"))
				return err
			},
			wantField: "jobId",
		},
		{
			name: "challenge zero id",
			op: func() error {
				_, err := service.ChallengeResult(ctx, aether.Hash{}, 100)
				return err
			},
			wantField: "jobId",
		},
		{
			name: "challenge zero stake",
			op: func() error {
				_, err := service.ChallengeResult(ctx, aether.Hash{0x01}, 0)
				return err
			},
			wantField: "challengeStake",
		},
		{
			name: "claim zero id",
			op: func() error {
				_, err := service.ClaimPayment(ctx, aether.Hash{})
				return err
			},
			wantField: "jobId",
		},
		{
			name: "wait zero id",
			op: func() error {
				_, err := service.WaitForJob(ctx, aether.Hash{}, 0, 0)
				return err
			},
			wantField: "jobId",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var invalid *aether.ValidationError
			require.ErrorAs(t, test.op(), &invalid)
			assert.Equal(t, test.wantField, invalid.Field)
		})
	}
}
