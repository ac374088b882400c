package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, overridable via -ldflags
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display devlog version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("devlog %s\n", Version)
		fmt.Printf("  commit:     %s\n", GitCommit)
		fmt.Printf("  built:      %s\n", BuildDate)
		fmt.Printf("  go version: %s\n", runtime.Version())
		fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
