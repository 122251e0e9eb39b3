// apiprobe ping — single reachability check.
package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/f9-o/apiprobe/internal/probe"
	"github.com/f9-o/apiprobe/pkg/errs"
	"github.com/f9-o/apiprobe/pkg/netutil"
)

func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping [url]",
		Short: "GET the service root once and report the status",
		Example: `  apiprobe ping
  apiprobe ping https://mentorapp-api-llm.onrender.com`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			base := rt.Config.BaseURL
			if len(args) == 1 {
				u, err := netutil.NormalizeBaseURL(args[0])
				if err != nil {
					return errs.Wrap(err, errs.ErrValidation, "ping.url")
				}
				base = u
			}

			rt.Out.Header("Ping")
			rt.Out.KV("URL:", base)

			res := rt.Client.Ping(cmd.Context(), base)
			probe.ReportPing(rt.Out, res)

			if err := probe.PingFailure(res); err != nil {
				return errs.Wrap(err, errs.ErrRunPingFailed, "ping").
					WithAdvice("a dormant deployment may need up to a minute to wake; try `apiprobe run`")
			}
			rt.Out.Success("%s responde (%s)", base, res.Latency.Round(time.Millisecond))
			return nil
		},
	}
}
