package aether_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/pkg/aether"
)

func sampleTransaction() *aether.Transaction {
	var pub aether.PublicKey
	for i := range pub {
		pub[i] = byte(i + 1)
	}

	return &aether.Transaction{
		Sender:          pub.Address(),
		SenderPublicKey: pub,
		Recipient:       common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Amount:          1000,
		Fee:             2000000,
		GasLimit:        500000,
		Nonce:           7,
		Memo:            "hello",
		Payload:         []byte{0xde, 0xad},
	}
}

func TestSigningBytesLayout(t *testing.T) {
	tx := sampleTransaction()
	b := tx.SigningBytes()

	wantLen := 42 + 32 + 42 + 4*8 + 8 + len(tx.Memo) + 8 + len(tx.Payload)
	require.Len(t, b, wantLen)

	assert.Equal(t, "0x"+common.Bytes2Hex(tx.Sender[:]), string(b[0:42]))
	assert.Equal(t, tx.SenderPublicKey[:], b[42:74])
	assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", string(b[74:116]))
	assert.Equal(t, uint64(1000), binary.LittleEndian.Uint64(b[116:124]))
	assert.Equal(t, uint64(2000000), binary.LittleEndian.Uint64(b[124:132]))
	assert.Equal(t, uint64(500000), binary.LittleEndian.Uint64(b[132:140]))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(b[140:148]))
	assert.Equal(t, uint64(5), binary.LittleEndian.Uint64(b[148:156]))
	assert.Equal(t, "hello", string(b[156:161]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(b[161:169]))
	assert.Equal(t, []byte{0xde, 0xad}, b[169:171])
}

func TestSigningBytesDeterministic(t *testing.T) {
	a := sampleTransaction()
	b := sampleTransaction()

	assert.Equal(t, a.SigningBytes(), b.SigningBytes())
	assert.Equal(t, a.Digest(), b.Digest())
}

func TestSigningBytesAddressesLowercase(t *testing.T) {
	tx := sampleTransaction()
	tx.Recipient = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

	b := tx.SigningBytes()
	assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", string(b[74:116]))
}

func TestDigestChangesWithEveryField(t *testing.T) {
	base := sampleTransaction().Digest()

	mutations := map[string]func(*aether.Transaction){
		"sender":    func(tx *aether.Transaction) { tx.Sender[0] ^= 0xff },
		"publicKey": func(tx *aether.Transaction) { tx.SenderPublicKey[0] ^= 0xff },
		"recipient": func(tx *aether.Transaction) { tx.Recipient[19] ^= 0x01 },
		"amount":    func(tx *aether.Transaction) { tx.Amount++ },
		"fee":       func(tx *aether.Transaction) { tx.Fee++ },
		"gasLimit":  func(tx *aether.Transaction) { tx.GasLimit++ },
		"nonce":     func(tx *aether.Transaction) { tx.Nonce++ },
		"memo":      func(tx *aether.Transaction) { tx.Memo += "!" },
		"payload":   func(tx *aether.Transaction) { tx.Payload = append(tx.Payload, 0x00) },
	}

	for field, mutate := range mutations {
		tx := sampleTransaction()
		mutate(tx)
		assert.NotEqual(t, base, tx.Digest(), "mutating %s must change the digest", field)
	}
}

func TestDigestIgnoresAccessLists(t *testing.T) {
	tx := sampleTransaction()
	base := tx.Digest()

	tx.Writes = []aether.Address{tx.Recipient}
	tx.Reads = []aether.Address{tx.Sender}

	assert.Equal(t, base, tx.Digest())
}

func TestEmptyAndAbsentOptionalFieldsEncodeAlike(t *testing.T) {
	a := sampleTransaction()
	a.Memo = ""
	a.Payload = nil

	b := sampleTransaction()
	b.Memo = ""
	b.Payload = []byte{}

	assert.Equal(t, a.SigningBytes(), b.SigningBytes())

	// Zero-length fields still occupy their length prefixes.
	wantLen := 42 + 32 + 42 + 4*8 + 8 + 8
	assert.Len(t, a.SigningBytes(), wantLen)
}

func TestLengthPrefixesPreventFieldAliasing(t *testing.T) {
	a := sampleTransaction()
	a.Memo = "ab"
	a.Payload = nil

	b := sampleTransaction()
	b.Memo = "a"
	b.Payload = []byte("b")

	assert.NotEqual(t, a.SigningBytes(), b.SigningBytes())
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestZeroNonceIsEncoded(t *testing.T) {
	tx := sampleTransaction()
	tx.Nonce = 0

	b := tx.SigningBytes()
	assert.Equal(t, uint64(0), binary.LittleEndian.Uint64(b[140:148]))
}

func TestVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	pk, err := aether.PublicKeyFromBytes(pub)
	require.NoError(t, err)

	tx := sampleTransaction()
	tx.SenderPublicKey = pk
	tx.Sender = pk.Address()

	digest := tx.Digest()
	sig, err := aether.SignatureFromBytes(ed25519.Sign(priv, digest[:]))
	require.NoError(t, err)
	tx.Signature = sig
	tx.Hash = digest

	assert.True(t, tx.Verify())
}

func TestVerifyRejectsBitFlips(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	pk, err := aether.PublicKeyFromBytes(pub)
	require.NoError(t, err)

	tx := sampleTransaction()
	tx.SenderPublicKey = pk
	tx.Sender = pk.Address()
	digest := tx.Digest()
	sig, err := aether.SignatureFromBytes(ed25519.Sign(priv, digest[:]))
	require.NoError(t, err)
	tx.Signature = sig

	flipped := *tx
	flipped.Signature[0] ^= 0x01
	assert.False(t, flipped.Verify())

	mutated := *tx
	mutated.Amount++
	assert.False(t, mutated.Verify())
}

func TestVerifyUnsignedIsFalse(t *testing.T) {
	tx := sampleTransaction()
	assert.False(t, tx.Verify())
}
