package keys

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
)

func newInspect() *cobra.Command {
	var revealSecret bool

	cmd := &cobra.Command{
		Use:   "inspect <keystore-file>",
		Short: "Decrypt a keystore file and print its address and public key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runInspect(args[0], revealSecret); err != nil {
				log.Fatal().Err(err).Msg("Failed to inspect keystore")
			}
		},
	}

	cmd.Flags().BoolVar(&revealSecret, "reveal-secret", false, "Also print the decrypted secret key")

	return cmd
}

func runInspect(path string, revealSecret bool) error {
	key, err := command.LoadKeystore(path)
	if err != nil {
		return err
	}

	out := struct {
		Address   aether.Address   `json:"address"`
		PublicKey aether.PublicKey `json:"public_key"`
		SecretKey string           `json:"secret_key,omitempty"`
	}{
		Address:   key.Address(),
		PublicKey: key.PublicKey(),
	}
	if revealSecret {
		out.SecretKey = key.SecretKeyHex()
	}

	return util.PrintJSON(os.Stdout, out)
}
