package aether

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Canonical transaction encoding.
//
// Signatures and hashes must agree across every SDK and the node, so the
// signable fields serialize into exactly one byte layout:
//
//	sender            42 bytes   UTF-8 of the 0x-prefixed lowercase hex address
//	sender public key 32 bytes   raw key bytes
//	recipient         42 bytes   UTF-8 of the 0x-prefixed lowercase hex address
//	amount             8 bytes   little-endian uint64
//	fee                8 bytes   little-endian uint64
//	gas limit          8 bytes   little-endian uint64
//	nonce              8 bytes   little-endian uint64
//	memo          8 + n bytes   little-endian uint64 length, then UTF-8 bytes
//	payload       8 + n bytes   little-endian uint64 length, then raw bytes
//
// All integers are little-endian uint64, one width throughout. Memo and
// payload carry length prefixes so adjacent variable-width fields cannot
// alias; an absent field encodes as length zero, indistinguishable from
// empty. Signature, hash and the access lists are excluded: the first two
// derive from this encoding, the lists are scheduler metadata filled in at
// build time. Every field is fixed-width or length-prefixed, so nothing
// can be silently truncated.

const (
	// addressTextLen is the encoded width of an address: "0x" + 40 hex.
	addressTextLen = 42
	wordLen        = 8
)

// SigningBytes returns the canonical byte encoding of the transaction's
// signable fields. The encoding is a pure function of the field values;
// identical transactions encode identically on every platform.
func (tx *Transaction) SigningBytes() []byte {
	size := addressTextLen + PublicKeyLength + addressTextLen +
		4*wordLen +
		wordLen + len(tx.Memo) +
		wordLen + len(tx.Payload)

	buf := make([]byte, 0, size)
	buf = append(buf, hexutil.Encode(tx.Sender[:])...)
	buf = append(buf, tx.SenderPublicKey[:]...)
	buf = append(buf, hexutil.Encode(tx.Recipient[:])...)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Amount)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Fee)
	buf = binary.LittleEndian.AppendUint64(buf, tx.GasLimit)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Nonce)
	buf = appendLengthPrefixed(buf, []byte(tx.Memo))
	buf = appendLengthPrefixed(buf, tx.Payload)
	return buf
}

// Digest returns the SHA-256 digest of the canonical encoding. This is the
// message that gets signed and the value stored in Hash.
func (tx *Transaction) Digest() Hash {
	return Hash(sha256.Sum256(tx.SigningBytes()))
}

func appendLengthPrefixed(buf, b []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(b)))
	return append(buf, b...)
}
