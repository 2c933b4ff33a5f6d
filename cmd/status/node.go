package status

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

func newNode() *cobra.Command {
	return &cobra.Command{
		Use:   "node",
		Short: "Print node health, current slot and the latest block",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runNode(cmd.Context()); err != nil {
				log.Fatal().Err(err).Msg("Failed to query node status")
			}
		},
	}
}

func runNode(ctx context.Context) error {
	cfg := config.DefaultClientConfigFromEnv()

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		if err := client.Healthy(ctx); err != nil {
			return err
		}

		slot, err := client.GetSlot(ctx)
		if err != nil {
			return err
		}

		block, err := client.GetLatestBlock(ctx)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, struct {
			Healthy     bool          `json:"healthy"`
			Slot        uint64        `json:"slot"`
			LatestBlock *aether.Block `json:"latest_block"`
		}{true, slot, block})
	})
}
