package config

import (
	"fmt"
)

// The following vars are automatically injected via -ldflags.
// See Makefile target "make go-build" and make var $(LDFLAGS).
// No need to change them here.
var (
	ModuleName = "build.local/misses/ldflags" // e.g. "github.com/aetherchain/go-aether"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "1970-01-01T00:00:00+00:00" // e.g. "2026-02-24T11:36:12+01:00"
)

// GetFormattedBuildArgs returns string representation of the injected
// build arguments: "ModuleName @ Commit (BuildDate)"
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
