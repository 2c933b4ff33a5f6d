package command

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/aetherchain/go-aether/pkg/aether/keypair"
)

// PromptPassword reads a password from the terminal without echo. With
// confirm set, it asks twice and requires both entries to match.
func PromptPassword(confirm bool) (string, error) {
	fmt.Fprint(os.Stderr, "Keystore password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	if len(pw) == 0 {
		return "", errors.New("password must not be empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "Repeat password: ")
		again, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", errors.Wrap(err, "failed to read password confirmation")
		}
		if !bytes.Equal(pw, again) {
			return "", errors.New("passwords do not match")
		}
	}

	return string(pw), nil
}

// LoadKeystore reads the keystore file at path, prompts for its password
// and returns the decrypted key pair.
func LoadKeystore(path string) (*keypair.KeyPair, error) {
	if path == "" {
		return nil, errors.New("no keystore path: pass --keystore or set AETHER_KEYSTORE_PATH")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore")
	}

	password, err := PromptPassword(false)
	if err != nil {
		return nil, err
	}

	return keypair.ImportKeystore(data, password)
}
