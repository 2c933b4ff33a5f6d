package rpc

import (
	"context"

	"github.com/aetherchain/go-aether/pkg/aether"
)

// GetJob returns the job with the given id, or aether.ErrNotFound.
func (c *Client) GetJob(ctx context.Context, id aether.Hash) (*aether.AIJob, error) {
	var job aether.AIJob
	if err := c.callInto(ctx, "ai_getJob", []any{id}, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobsByCreator returns every job submitted by creator.
func (c *Client) GetJobsByCreator(ctx context.Context, creator aether.Address) ([]aether.AIJob, error) {
	var jobs []aether.AIJob
	if err := c.callInto(ctx, "ai_getJobsByCreator", []any{creator}, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetPendingJobs returns jobs not yet taken by a provider.
func (c *Client) GetPendingJobs(ctx context.Context) ([]aether.AIJob, error) {
	var jobs []aether.AIJob
	if err := c.callInto(ctx, "ai_getPendingJobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJobsByProvider returns jobs assigned to provider.
func (c *Client) GetJobsByProvider(ctx context.Context, provider aether.Address) ([]aether.AIJob, error) {
	var jobs []aether.AIJob
	if err := c.callInto(ctx, "ai_getJobsByProvider", []any{provider}, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetVCR returns the compute receipt recorded for a job, or
// aether.ErrNotFound while no provider has submitted one.
func (c *Client) GetVCR(ctx context.Context, jobID aether.Hash) (*aether.VerifiableComputeReceipt, error) {
	var vcr aether.VerifiableComputeReceipt
	if err := c.callInto(ctx, "ai_getVCR", []any{jobID}, &vcr); err != nil {
		return nil, err
	}
	return &vcr, nil
}

// VerifyVCR submits a receipt to the node's proof verifier. The verdict
// keeps proof and attestation validity separate.
func (c *Client) VerifyVCR(ctx context.Context, vcr *aether.VerifiableComputeReceipt) (*aether.VerificationResult, error) {
	var result aether.VerificationResult
	if err := c.callInto(ctx, "ai_verifyVCR", []any{vcr}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetJobStats returns aggregate statistics over the job escrow.
func (c *Client) GetJobStats(ctx context.Context) (*aether.JobStats, error) {
	var stats aether.JobStats
	if err := c.callInto(ctx, "ai_getJobStats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetProviderReputation returns the network's scoring of provider.
func (c *Client) GetProviderReputation(ctx context.Context, provider aether.Address) (*aether.ProviderReputation, error) {
	var rep aether.ProviderReputation
	if err := c.callInto(ctx, "ai_getProviderReputation", []any{provider}, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// RegisterModel registers model metadata with the node's model registry,
// keyed by the model hash.
func (c *Client) RegisterModel(ctx context.Context, model *aether.ModelInfo) error {
	var ok bool
	return c.callInto(ctx, "ai_registerModel", []any{model.Hash, model}, &ok)
}

// GetModel returns the registered metadata for a model hash, or
// aether.ErrNotFound.
func (c *Client) GetModel(ctx context.Context, modelHash aether.Hash) (*aether.ModelInfo, error) {
	var model aether.ModelInfo
	if err := c.callInto(ctx, "ai_getModel", []any{modelHash}, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// ListModels returns the hashes of every registered model.
func (c *Client) ListModels(ctx context.Context) ([]aether.Hash, error) {
	var hashes []aether.Hash
	if err := c.callInto(ctx, "ai_listModels", nil, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}
