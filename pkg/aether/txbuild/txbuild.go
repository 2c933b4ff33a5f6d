// Package txbuild assembles and signs transactions. A Draft accumulates
// fields in any order; Build validates the draft, produces the canonical
// digest, signs it and returns the immutable signed transaction. Nothing
// here touches the network: nonces come from the caller, which keeps the
// whole path a pure transformation from intent to signed artifact.
package txbuild

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
)

// Fee and gas applied when a draft does not set them.
const (
	DefaultFee      uint64 = 2_000_000
	DefaultGasLimit uint64 = 500_000
)

// Draft is the mutable accumulation of transaction fields. Pointer fields
// distinguish "never set" from a zero value: a zero nonce is a valid
// nonce, not an unset one. swag pointer helpers keep literals compact.
type Draft struct {
	Recipient *aether.Address
	Amount    *uint64
	Nonce     *uint64
	Fee       *uint64 // nil applies DefaultFee
	GasLimit  *uint64 // nil applies DefaultGasLimit
	Memo      string
	Payload   []byte

	// Reads and Writes declare state access for the scheduler. A nil
	// Writes defaults to just the recipient; an explicitly set list is
	// taken as-is.
	Reads  []aether.Address
	Writes []aether.Address
}

// Transfer drafts a plain value transfer.
func Transfer(recipient aether.Address, amount, nonce uint64) Draft {
	return Draft{
		Recipient: &recipient,
		Amount:    swag.Uint64(amount),
		Nonce:     swag.Uint64(nonce),
	}
}

// Call drafts a contract call carrying payload. Value is the amount
// transferred alongside the call and may be zero.
func Call(contract aether.Address, payload []byte, value, nonce uint64) Draft {
	return Draft{
		Recipient: &contract,
		Amount:    swag.Uint64(value),
		Nonce:     swag.Uint64(nonce),
		Payload:   payload,
	}
}

// Build validates draft, signs it with key and returns the signed
// transaction. Sender and sender public key always derive from key.
// A required field that was never set fails with
// IncompleteTransactionError naming that field; no partial transaction
// ever escapes.
func Build(key *keypair.KeyPair, draft Draft) (*aether.Transaction, error) {
	if key == nil {
		return nil, &aether.IncompleteTransactionError{Field: "key"}
	}
	if draft.Recipient == nil {
		return nil, &aether.IncompleteTransactionError{Field: "recipient"}
	}
	if draft.Amount == nil {
		return nil, &aether.IncompleteTransactionError{Field: "amount"}
	}
	if draft.Nonce == nil {
		return nil, &aether.IncompleteTransactionError{Field: "nonce"}
	}

	recipient := *draft.Recipient
	if recipient == (aether.Address{}) {
		return nil, aether.NewValidationError("recipient", "zero address")
	}

	writes := append([]aether.Address(nil), draft.Writes...)
	if draft.Writes == nil {
		writes = []aether.Address{recipient}
	}

	tx := &aether.Transaction{
		Sender:          key.Address(),
		SenderPublicKey: key.PublicKey(),
		Recipient:       recipient,
		Amount:          *draft.Amount,
		Fee:             swag.Uint64Value(draft.Fee),
		GasLimit:        swag.Uint64Value(draft.GasLimit),
		Nonce:           *draft.Nonce,
		Memo:            draft.Memo,
		Payload:         hexutil.Bytes(append([]byte(nil), draft.Payload...)),
		Reads:           append([]aether.Address(nil), draft.Reads...),
		Writes:          writes,
	}
	if draft.Fee == nil {
		tx.Fee = DefaultFee
	}
	if draft.GasLimit == nil {
		tx.GasLimit = DefaultGasLimit
	}

	digest := tx.Digest()
	tx.Signature = key.Sign(digest[:])
	tx.Hash = digest

	return tx, nil
}

// SelectorLength is the number of leading method-name bytes that form a
// call payload selector.
const SelectorLength = 4

// EncodeCall encodes a contract method invocation as call payload: a
// selector taken from the first four bytes of the method name, followed
// by the JSON encoded parameter list.
func EncodeCall(method string, params ...any) ([]byte, error) {
	if len(method) < SelectorLength {
		return nil, aether.NewValidationError("method", "shorter than %d bytes", SelectorLength)
	}
	if params == nil {
		params = []any{}
	}

	args, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s call parameters", method)
	}

	payload := make([]byte, 0, SelectorLength+len(args))
	payload = append(payload, method[:SelectorLength]...)

	return append(payload, args...), nil
}
