package keypair

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aetherchain/go-aether/pkg/aether"
	"golang.org/x/crypto/scrypt"
)

// ErrInvalidPassword indicates the keystore MAC did not verify, i.e. the
// supplied password is wrong or the file was tampered with.
var ErrInvalidPassword = errors.New("invalid keystore password")

const (
	keystoreVersion = 3
	keystoreCipher  = "aes-128-ctr"
	keystoreKDF     = "scrypt"

	scryptN     = 262144 // CPU/memory cost (2^18)
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32

	saltLen = 32
	ivLen   = 16 // AES-128-CTR block size
)

// Keystore is an encrypted secret key file in the keystore v3 layout:
// scrypt derives a 32 byte key from the password, the first half encrypts
// the secret with AES-128-CTR, the second half keys a SHA-256 MAC over
// the ciphertext. Address is stored in clear so files can be identified
// without decrypting.
type Keystore struct {
	Version int            `json:"version"`
	ID      string         `json:"id"`
	Address aether.Address `json:"address"`
	Crypto  struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// ExportKeystore encrypts the secret key under password and returns the
// keystore file as JSON.
func (kp *KeyPair) ExportKeystore(password string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	//nolint:varnamelen // iv is the usual name for an initialization vector
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	secret := kp.SecretKey()
	defer zero(secret)

	ciphertext, err := xorCTR(derivedKey[:16], iv, secret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt secret key")
	}

	ks := &Keystore{
		Version: keystoreVersion,
		ID:      uuid.New().String(),
		Address: kp.addr,
	}
	ks.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	ks.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	ks.Crypto.Cipher = keystoreCipher
	ks.Crypto.KDF = keystoreKDF
	ks.Crypto.KDFParams.DKLen = scryptDKLen
	ks.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	ks.Crypto.KDFParams.N = scryptN
	ks.Crypto.KDFParams.R = scryptR
	ks.Crypto.KDFParams.P = scryptP
	ks.Crypto.MAC = hex.EncodeToString(computeMAC(derivedKey[16:32], ciphertext))

	return json.MarshalIndent(ks, "", "  ")
}

// ImportKeystore decrypts a keystore file and rebuilds the KeyPair.
// A wrong password surfaces as ErrInvalidPassword via the MAC check; the
// ciphertext is never touched before the MAC verifies.
func ImportKeystore(data []byte, password string) (*KeyPair, error) {
	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, errors.Wrap(err, "failed to parse keystore")
	}

	if ks.Version != keystoreVersion {
		return nil, errors.Errorf("unsupported keystore version %d", ks.Version)
	}
	if ks.Crypto.Cipher != keystoreCipher || ks.Crypto.KDF != keystoreKDF {
		return nil, errors.Errorf("unsupported keystore cipher %q / kdf %q", ks.Crypto.Cipher, ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}

	//nolint:varnamelen // iv is the usual name for an initialization vector
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	p := ks.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	mac := computeMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, errors.Wrap(ErrInvalidPassword, "MAC mismatch")
	}

	secret, err := xorCTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt secret key")
	}
	defer zero(secret)

	kp, err := FromSecretKey(secret)
	if err != nil {
		return nil, err
	}

	if ks.Address != (aether.Address{}) && ks.Address != kp.addr {
		return nil, errors.Errorf("keystore address %s does not match key %s",
			hexutil.Encode(ks.Address[:]), hexutil.Encode(kp.addr[:]))
	}

	return kp, nil
}

// xorCTR runs AES-128-CTR over data. CTR is symmetric, so the same
// function encrypts and decrypts.
func xorCTR(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return out, nil
}

// computeMAC is SHA-256 over the second half of the derived key followed
// by the ciphertext.
func computeMAC(key, ciphertext []byte) []byte {
	hasher := sha256.New()
	hasher.Write(key)
	hasher.Write(ciphertext)
	return hasher.Sum(nil)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
