package job

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("job",
		newSubmit(),
		newGet(),
		newWait(),
		newVerify(),
		newReputation(),
		newStats(),
		newRequest(),
	)
}

// parseHash strictly parses a 0x-prefixed 32 byte hash. Unlike
// common.HexToHash it rejects wrong lengths instead of padding.
func parseHash(s string) (aether.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return aether.Hash{}, errors.Wrapf(err, "invalid hash %q", s)
	}
	if len(b) != common.HashLength {
		return aether.Hash{}, errors.Errorf("invalid hash %q: want %d bytes, got %d", s, common.HashLength, len(b))
	}

	return common.BytesToHash(b), nil
}
