// apiprobe run — ping the service, fall back, wait out a cold start, then
// submit the general diagnosis.
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/internal/runner"
	"github.com/f9-o/apiprobe/pkg/errs"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full smoke test: ping with fallbacks, then the general diagnosis",
		Example: `  apiprobe run
  apiprobe run --base-url http://localhost:8000
  apiprobe run --fallback https://staging.example.com --cold-start 30s`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt.Out.KV("Run:", rt.RunID)
			rt.Out.KV("Source:", rt.Config.BaseURLSource)

			r := runner.New(rt.Client, rt.Out, rt.Log, runner.Options{
				BaseURL:        rt.Config.BaseURL,
				FallbackURLs:   rt.Config.FallbackURLs,
				ColdStartDelay: rt.Config.ColdStartDelay,
				Payload:        v1.DefaultGeneralRequest(),
				RunID:          rt.RunID,
			})

			outcome, err := r.Run(ctx)
			if err != nil {
				return err
			}
			if outcome.ExitCode() != 0 {
				return errs.New(errs.ErrRunBusinessFailed, "run.business",
					fmt.Errorf("general diagnosis did not succeed")).
					WithURL(outcome.BaseURL).
					WithAdvice("inspect the response above; ping verdict does not affect the exit code")
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("fallback", nil, "Alternative base URLs tried in order when ping fails (env APIPROBE_FALLBACK_URLS)")
	cmd.Flags().Duration("cold-start", runner.DefaultColdStartDelay, "Wait before the final ping retry (env APIPROBE_COLD_START_DELAY)")
	return cmd
}
