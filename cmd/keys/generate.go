package keys

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/keypair"
)

func newGenerate() *cobra.Command {
	var out string
	var seed string
	var secret string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a key pair and write it as an encrypted keystore file",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runGenerate(out, seed, secret); err != nil {
				log.Fatal().Err(err).Msg("Failed to generate keystore")
			}
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Keystore file to write (defaults to AETHER_KEYSTORE_PATH)")
	cmd.Flags().StringVar(&seed, "seed", "", "Derive the key from a fixed seed string (test fixtures only, this is not a passphrase KDF)")
	cmd.Flags().StringVar(&secret, "secret", "", "Import an existing 0x-prefixed hex secret key instead of generating one")

	return cmd
}

func runGenerate(out, seed, secret string) error {
	if out == "" {
		out = config.DefaultClientConfigFromEnv().KeystorePath
	}
	if out == "" {
		return errors.New("no keystore path: pass --out or set AETHER_KEYSTORE_PATH")
	}
	if _, err := os.Stat(out); err == nil {
		return errors.Errorf("refusing to overwrite existing keystore %s", out)
	}

	key, err := resolveKey(seed, secret)
	if err != nil {
		return err
	}

	password, err := command.PromptPassword(true)
	if err != nil {
		return err
	}

	data, err := key.ExportKeystore(password)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return err
	}

	log.Info().Str("path", out).Msg("keystore written")

	return util.PrintJSON(os.Stdout, struct {
		Address aether.Address `json:"address"`
		Path    string         `json:"path"`
	}{key.Address(), out})
}

func resolveKey(seed, secret string) (*keypair.KeyPair, error) {
	switch {
	case secret != "" && seed != "":
		return nil, errors.New("--seed and --secret are mutually exclusive")
	case secret != "":
		return keypair.FromSecretKeyHex(secret)
	case seed != "":
		return keypair.FromSeed([]byte(seed)), nil
	default:
		return keypair.Generate()
	}
}
