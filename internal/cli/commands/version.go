// apiprobe version — print version information.
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/f9-o/apiprobe/pkg/pprint"
)

// Build-time variables injected via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Print apiprobe version information",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pprint.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			p.PrintBanner(Version, BuildDate)

			p.KV("Version", Version)
			p.KV("Commit", Commit)
			p.KV("Built", BuildDate)
			p.KV("Go", runtime.Version())
			p.KV("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
			p.Println()
			return nil
		},
	}
}
