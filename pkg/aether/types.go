// Package aether defines the core value types shared by the SDK packages:
// addresses, hashes, keys, transactions, receipts and the AI compute job
// read model, together with the canonical transaction encoding and the
// error taxonomy used across the module.
package aether

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address is a 20 byte account identifier, rendered on the wire as a
// 0x-prefixed lowercase hex string. Addresses are derived from public keys
// (see PublicKey.Address), never chosen.
type Address = common.Address

// Hash is a 32 byte SHA-256 digest, rendered on the wire as a 0x-prefixed
// lowercase hex string.
type Hash = common.Hash

// AddressHex renders a in the canonical wire form: 0x-prefixed lowercase
// hex. The EIP-55 checksummed form is never used on the wire.
func AddressHex(a Address) string {
	return hexutil.Encode(a[:])
}

const (
	// PublicKeyLength is the byte length of an Ed25519 public key.
	PublicKeyLength = ed25519.PublicKeySize
	// SignatureLength is the byte length of an Ed25519 signature.
	SignatureLength = ed25519.SignatureSize
	// SecretKeyLength is the byte length of an Ed25519 private seed.
	SecretKeyLength = ed25519.SeedSize
)

// PublicKey is a raw Ed25519 public key.
type PublicKey [PublicKeyLength]byte

// PublicKeyFromBytes converts a raw byte slice into a PublicKey.
// Returns ErrInvalidKeyMaterial if b is not exactly 32 bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var p PublicKey
	if len(b) != PublicKeyLength {
		return p, ErrInvalidKeyMaterial
	}
	copy(p[:], b)
	return p, nil
}

func (p PublicKey) Bytes() []byte { return p[:] }

// Hex returns the 0x-prefixed lowercase hex form.
func (p PublicKey) Hex() string { return hexutil.Encode(p[:]) }

// Address derives the account address for this key: the last 20 bytes of
// SHA-256 over the raw key. The derivation is deterministic and one-way.
func (p PublicKey) Address() Address {
	digest := sha256.Sum256(p[:])
	return common.BytesToAddress(digest[:])
}

// IsZero reports whether the key is the all-zero value, i.e. unset.
func (p PublicKey) IsZero() bool { return p == PublicKey{} }

func (p PublicKey) MarshalText() ([]byte, error) {
	return hexutil.Bytes(p[:]).MarshalText()
}

func (p *PublicKey) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("PublicKey", input, p[:])
}

// Signature is a raw Ed25519 signature over a 32 byte transaction digest.
type Signature [SignatureLength]byte

// SignatureFromBytes converts a raw byte slice into a Signature.
// Returns ErrInvalidKeyMaterial if b is not exactly 64 bytes.
func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureLength {
		return s, ErrInvalidKeyMaterial
	}
	copy(s[:], b)
	return s, nil
}

func (s Signature) Bytes() []byte { return s[:] }

// Hex returns the 0x-prefixed lowercase hex form.
func (s Signature) Hex() string { return hexutil.Encode(s[:]) }

// IsZero reports whether the signature is the all-zero value, i.e. unset.
func (s Signature) IsZero() bool { return s == Signature{} }

func (s Signature) MarshalText() ([]byte, error) {
	return hexutil.Bytes(s[:]).MarshalText()
}

func (s *Signature) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Signature", input, s[:])
}

// Transaction is a value transfer or contract call. Builders produce
// transactions already signed and hashed; a signed transaction is immutable
// and any mutation invalidates Signature and Hash together.
type Transaction struct {
	Sender          Address       `json:"sender"`
	SenderPublicKey PublicKey     `json:"senderPublicKey"`
	Recipient       Address       `json:"recipient"`
	Amount          uint64        `json:"amount"`
	Fee             uint64        `json:"fee"`
	GasLimit        uint64        `json:"gasLimit"`
	Nonce           uint64        `json:"nonce"`
	Memo            string        `json:"memo,omitempty"`
	Payload         hexutil.Bytes `json:"payload,omitempty"`

	// Reads and Writes are the declared state access lists used by the
	// scheduler. They are derived metadata and not part of the canonical
	// digest; Writes always contains at least the recipient.
	Reads  []Address `json:"reads,omitempty"`
	Writes []Address `json:"writes,omitempty"`

	Signature Signature `json:"signature"`
	Hash      Hash      `json:"hash"`
}

// Verify reports whether Signature is a valid Ed25519 signature by
// SenderPublicKey over the transaction's canonical digest. It recomputes
// the digest from the current field values, so a mutated transaction
// fails verification. Malformed input yields false, never a panic.
func (tx *Transaction) Verify() bool {
	if tx.Signature.IsZero() || tx.SenderPublicKey.IsZero() {
		return false
	}
	digest := tx.Digest()
	return ed25519.Verify(tx.SenderPublicKey[:], digest[:], tx.Signature[:])
}

// ReceiptStatus is the execution outcome recorded in a transaction receipt.
type ReceiptStatus string

const (
	ReceiptStatusSuccess ReceiptStatus = "success"
	ReceiptStatusFailed  ReceiptStatus = "failed"
)

// TransactionReceipt is the node's immutable record of an executed
// transaction. Existence of a receipt means the transaction reached a
// block; Status says whether execution succeeded.
type TransactionReceipt struct {
	TransactionHash Hash          `json:"transactionHash"`
	BlockHash       Hash          `json:"blockHash"`
	BlockSlot       uint64        `json:"blockSlot"`
	From            Address       `json:"from"`
	To              Address       `json:"to"`
	Status          ReceiptStatus `json:"status"`
	GasUsed         uint64        `json:"gasUsed"`
	Logs            []string      `json:"logs,omitempty"`
}

// Succeeded reports whether the receipt records successful execution.
func (r *TransactionReceipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccess
}

// Account is the node's view of an account at the time of the query.
type Account struct {
	Address  Address `json:"address"`
	Balance  uint64  `json:"balance"`
	Nonce    uint64  `json:"nonce"`
	CodeHash *Hash   `json:"codeHash,omitempty"`
}

// Block is a sealed ledger block. Transactions holds the hashes of the
// included transactions.
type Block struct {
	Slot         uint64        `json:"slot"`
	Hash         Hash          `json:"hash"`
	ParentHash   Hash          `json:"parentHash"`
	Proposer     Address       `json:"proposer"`
	StateRoot    Hash          `json:"stateRoot"`
	Timestamp    int64         `json:"timestamp"`
	Transactions []Hash        `json:"transactions,omitempty"`
	VRFProof     hexutil.Bytes `json:"vrfProof,omitempty"`
}
