package rpc

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/aetherchain/go-aether/pkg/aether"
)

// TransactionArgs is the sendTransaction wire envelope. The first six
// fields are the submission contract proper; the remainder let the node
// recompute the canonical digest and verify the signature server side.
// Data is omitted entirely when there is no payload, never sent as "0x".
type TransactionArgs struct {
	From      aether.Address   `json:"from"`
	To        aether.Address   `json:"to"`
	Value     uint64           `json:"value"`
	Data      hexutil.Bytes    `json:"data,omitempty"`
	Nonce     uint64           `json:"nonce"`
	Signature aether.Signature `json:"signature"`

	PublicKey aether.PublicKey `json:"publicKey"`
	Fee       uint64           `json:"fee"`
	GasLimit  uint64           `json:"gasLimit"`
	Memo      string           `json:"memo,omitempty"`
	Reads     []aether.Address `json:"reads,omitempty"`
	Writes    []aether.Address `json:"writes,omitempty"`
}

// Envelope converts a signed transaction into its submission envelope.
func Envelope(tx *aether.Transaction) *TransactionArgs {
	return &TransactionArgs{
		From:      tx.Sender,
		To:        tx.Recipient,
		Value:     tx.Amount,
		Data:      tx.Payload,
		Nonce:     tx.Nonce,
		Signature: tx.Signature,
		PublicKey: tx.SenderPublicKey,
		Fee:       tx.Fee,
		GasLimit:  tx.GasLimit,
		Memo:      tx.Memo,
		Reads:     tx.Reads,
		Writes:    tx.Writes,
	}
}
