package rpc

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/track"
)

// GetSlot returns the node's current slot.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	var slot uint64
	if err := c.callInto(ctx, "getSlot", nil, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

// GetLatestBlock returns the most recently sealed block.
func (c *Client) GetLatestBlock(ctx context.Context) (*aether.Block, error) {
	var block aether.Block
	if err := c.callInto(ctx, "getLatestBlock", nil, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetBlock returns the block at slot. includeTxs asks the node to list
// the included transaction hashes.
func (c *Client) GetBlock(ctx context.Context, slot uint64, includeTxs bool) (*aether.Block, error) {
	var block aether.Block
	if err := c.callInto(ctx, "getBlock", []any{slot, includeTxs}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetBlockByHash returns the block with the given hash.
func (c *Client) GetBlockByHash(ctx context.Context, hash aether.Hash, includeTxs bool) (*aether.Block, error) {
	var block aether.Block
	if err := c.callInto(ctx, "getBlockByHash", []any{hash, includeTxs}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetTransaction returns a transaction by hash, or aether.ErrNotFound if
// the node has never seen it.
func (c *Client) GetTransaction(ctx context.Context, hash aether.Hash) (*aether.Transaction, error) {
	var tx aether.Transaction
	if err := c.callInto(ctx, "getTransaction", []any{hash}, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetAccount returns the account state for address.
func (c *Client) GetAccount(ctx context.Context, address aether.Address) (*aether.Account, error) {
	var account aether.Account
	if err := c.callInto(ctx, "getAccount", []any{address}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetBalance returns the account balance for address.
func (c *Client) GetBalance(ctx context.Context, address aether.Address) (uint64, error) {
	account, err := c.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// GetNonce returns the next nonce for address. Builders take the nonce
// from here; the ledger enforces the strictly-increasing rule.
func (c *Client) GetNonce(ctx context.Context, address aether.Address) (uint64, error) {
	account, err := c.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Nonce, nil
}

// SendTransaction submits a transaction envelope and returns the hash the
// node will key the receipt by.
func (c *Client) SendTransaction(ctx context.Context, args *TransactionArgs) (aether.Hash, error) {
	var hash aether.Hash
	if err := c.callInto(ctx, "sendTransaction", []any{args}, &hash); err != nil {
		return aether.Hash{}, err
	}
	return hash, nil
}

// SubmitTransaction wraps a signed transaction in its envelope and sends
// it.
func (c *Client) SubmitTransaction(ctx context.Context, tx *aether.Transaction) (aether.Hash, error) {
	return c.SendTransaction(ctx, Envelope(tx))
}

// SendRawTransaction submits a hex encoded raw transaction.
func (c *Client) SendRawTransaction(ctx context.Context, raw hexutil.Bytes) (aether.Hash, error) {
	var hash aether.Hash
	if err := c.callInto(ctx, "sendRawTransaction", []any{raw.String()}, &hash); err != nil {
		return aether.Hash{}, err
	}
	return hash, nil
}

// GetTransactionReceipt returns the receipt for hash, or
// aether.ErrNotFound while the transaction has not been included.
func (c *Client) GetTransactionReceipt(ctx context.Context, hash aether.Hash) (*aether.TransactionReceipt, error) {
	var receipt aether.TransactionReceipt
	if err := c.callInto(ctx, "getTransactionReceipt", []any{hash}, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// EstimateGas asks the node for a gas estimate for the given envelope.
// The envelope does not need to be signed.
func (c *Client) EstimateGas(ctx context.Context, args *TransactionArgs) (uint64, error) {
	var gas uint64
	if err := c.callInto(ctx, "estimateGas", []any{args}, &gas); err != nil {
		return 0, err
	}
	return gas, nil
}

// Healthy reports node liveness by fetching the current slot.
func (c *Client) Healthy(ctx context.Context) error {
	_, err := c.GetSlot(ctx)
	return errors.Wrap(err, "node health check")
}

// WaitForReceipt polls until the transaction has a receipt. A receipt
// with failed status surfaces as RemoteFailureError; an exhausted budget
// as TimeoutError. Zero interval or timeout fall back to the package
// defaults. A zero hash cannot ever get a receipt, so it fails fast
// before the first probe.
func (c *Client) WaitForReceipt(ctx context.Context, hash aether.Hash, interval, timeout time.Duration) (*aether.TransactionReceipt, error) {
	if hash == (aether.Hash{}) {
		return nil, aether.NewValidationError("hash", "zero transaction hash")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	cfg := track.Config{
		Op:       "transaction",
		ID:       hash.Hex(),
		Interval: interval,
		Timeout:  timeout,
		Clock:    c.clock,
	}

	return track.Wait(ctx, cfg,
		func(ctx context.Context) (*aether.TransactionReceipt, error) {
			return c.GetTransactionReceipt(ctx, hash)
		},
		func(receipt *aether.TransactionReceipt) track.Verdict {
			if receipt.Succeeded() {
				return track.Succeeded()
			}
			return track.Failed(string(receipt.Status), "transaction execution failed")
		})
}
