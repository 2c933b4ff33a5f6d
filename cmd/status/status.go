package status

import (
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("status",
		newNode(),
		newAccount(),
	)
}
