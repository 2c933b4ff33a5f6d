package status

import (
	"context"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

func newAccount() *cobra.Command {
	return &cobra.Command{
		Use:   "account <address>",
		Short: "Print balance and nonce of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runAccount(cmd.Context(), args[0]); err != nil {
				log.Fatal().Err(err).Msg("Failed to query account")
			}
		},
	}
}

func runAccount(ctx context.Context, addr string) error {
	if !common.IsHexAddress(addr) {
		return errors.Errorf("invalid address %q", addr)
	}
	address := common.HexToAddress(addr)

	cfg := config.DefaultClientConfigFromEnv()

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		account, err := client.GetAccount(ctx, address)
		if errors.Is(err, aether.ErrNotFound) {
			// Never funded, never a sender: report it as empty.
			account = &aether.Account{Address: address}
		} else if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, account)
	})
}
