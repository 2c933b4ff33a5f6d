package job

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
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

func newReputation() *cobra.Command {
	return &cobra.Command{
		Use:   "reputation <provider-address>",
		Short: "Print the job track record of a provider",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runReputation(cmd.Context(), args[0]); err != nil {
				log.Fatal().Err(err).Msg("Failed to fetch provider reputation")
			}
		},
	}
}

func runReputation(ctx context.Context, addr string) error {
	if !common.IsHexAddress(addr) {
		return errors.Errorf("invalid provider address %q", addr)
	}
	provider := common.HexToAddress(addr)

	cfg := config.DefaultClientConfigFromEnv()

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		reputation, err := client.GetProviderReputation(ctx, provider)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, reputation)
	})
}
