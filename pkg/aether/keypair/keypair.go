// Package keypair implements Ed25519 signing keys for the ledger: random
// generation, deterministic derivation from seeds, raw and hex import and
// export, and an encrypted keystore file format.
package keypair

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/aetherchain/go-aether/pkg/aether"
)

// KeyPair owns an Ed25519 private key and the public identity derived
// from it. The private key never leaves the struct except through the
// explicit export methods; it is not logged and has no JSON form.
type KeyPair struct {
	priv ed25519.PrivateKey
	pub  aether.PublicKey
	addr aether.Address
}

// Generate creates a KeyPair from cryptographically secure randomness.
func Generate() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate key")
	}
	return assemble(priv, pub), nil
}

// FromSeed derives a KeyPair deterministically: the secret key is the
// SHA-256 digest of the seed bytes. The same seed always yields the same
// KeyPair and therefore the same address.
//
// This is a plain digest, not a key derivation function. It does nothing
// to harden low-entropy input, so it must not be used with passphrases;
// it exists for reproducible fixtures and interop with the other SDKs.
func FromSeed(seed []byte) *KeyPair {
	secret := sha256.Sum256(seed)
	priv := ed25519.NewKeyFromSeed(secret[:])
	return assemble(priv, priv.Public().(ed25519.PublicKey))
}

// FromSecretKey builds a KeyPair from a raw 32 byte Ed25519 secret key.
// Returns ErrInvalidKeyMaterial for any other length.
func FromSecretKey(secret []byte) (*KeyPair, error) {
	if len(secret) != aether.SecretKeyLength {
		return nil, errors.Wrapf(aether.ErrInvalidKeyMaterial,
			"secret key must be %d bytes, got %d", aether.SecretKeyLength, len(secret))
	}
	priv := ed25519.NewKeyFromSeed(secret)
	return assemble(priv, priv.Public().(ed25519.PublicKey)), nil
}

// FromSecretKeyHex builds a KeyPair from a hex encoded secret key, with
// or without the 0x prefix.
func FromSecretKeyHex(s string) (*KeyPair, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrap(aether.ErrInvalidKeyMaterial, err.Error())
	}
	return FromSecretKey(raw)
}

func assemble(priv ed25519.PrivateKey, pub ed25519.PublicKey) *KeyPair {
	var p aether.PublicKey
	copy(p[:], pub)
	return &KeyPair{priv: priv, pub: p, addr: p.Address()}
}

// PublicKey returns the public key.
func (kp *KeyPair) PublicKey() aether.PublicKey { return kp.pub }

// Address returns the account address derived from the public key.
func (kp *KeyPair) Address() aether.Address { return kp.addr }

// SecretKey returns a copy of the raw 32 byte secret key.
// The caller owns the copy and should zero it after use.
func (kp *KeyPair) SecretKey() []byte {
	out := make([]byte, aether.SecretKeyLength)
	copy(out, kp.priv.Seed())
	return out
}

// SecretKeyHex returns the secret key as 0x-prefixed hex.
func (kp *KeyPair) SecretKeyHex() string {
	return "0x" + hex.EncodeToString(kp.priv.Seed())
}

// Sign signs message with the private key. Callers sign 32 byte
// transaction digests, never raw transaction bytes. Signing is a pure
// function of the key and the message.
func (kp *KeyPair) Sign(message []byte) aether.Signature {
	var sig aether.Signature
	copy(sig[:], ed25519.Sign(kp.priv, message))
	return sig
}

// Verify reports whether sig is a valid signature over message by the
// holder of pub. Malformed input yields false, never a panic or an error.
func Verify(pub aether.PublicKey, message []byte, sig aether.Signature) bool {
	return ed25519.Verify(pub[:], message, sig[:])
}
