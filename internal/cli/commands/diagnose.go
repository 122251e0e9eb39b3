// apiprobe diagnose — submit canned payloads to the analysis endpoints.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/internal/probe"
	"github.com/f9-o/apiprobe/pkg/errs"
)

// diagnoseAll selects every diagnosis kind.
const diagnoseAll = "all"

func NewDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose [emergencia|general|profundo|all]",
		Short: "Submit the canned payload for one or every diagnosis kind and summarise the responses",
		Long: `Submits the fixed payload of the given diagnosis kind to its analysis
endpoint. With no argument, or with "all", every kind is sent in turn and a
per-kind verdict is printed; the command fails unless all of them pass.`,
		Example: `  apiprobe diagnose
  apiprobe diagnose general
  apiprobe diagnose emergencia --base-url http://localhost:8000`,
		Args:         cobra.MaximumNArgs(1),
		ValidArgs:    []string{string(v1.DiagnosisEmergency), string(v1.DiagnosisGeneral), string(v1.DiagnosisDeep), diagnoseAll},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			if len(args) == 0 || strings.EqualFold(strings.TrimSpace(args[0]), diagnoseAll) {
				return diagnoseEvery(cmd.Context(), rt)
			}

			kind, err := v1.ParseDiagnosisKind(args[0])
			if err != nil {
				return errs.Wrap(err, errs.ErrValidation, "diagnose.kind")
			}
			if err := diagnose(cmd.Context(), rt, kind); err != nil {
				return errs.Wrap(err, errs.ErrRunBusinessFailed, "diagnose."+string(kind))
			}
			return nil
		},
	}
}

// diagnoseEvery sends each kind in order, then prints a verdict per kind and
// the pass count.
func diagnoseEvery(ctx context.Context, rt *Runtime) error {
	total := len(v1.DiagnosisKinds)
	passed := make([]bool, total)
	var failed []string

	for i, kind := range v1.DiagnosisKinds {
		rt.Out.Println()
		rt.Out.Step(i+1, total, "Diagnóstico %s", kind)
		if err := diagnose(ctx, rt, kind); err != nil {
			rt.Log.Info("diagnosis failed", "kind", kind, "err", err)
			failed = append(failed, string(kind))
			continue
		}
		passed[i] = true
	}

	rt.Out.Header("Resumen")
	for i, kind := range v1.DiagnosisKinds {
		rt.Out.Verdict(strings.ToUpper(string(kind))+":", passed[i])
	}
	ok := total - len(failed)
	rt.Out.Println()
	rt.Out.Info("Total: %d/%d diagnósticos pasaron", ok, total)

	if len(failed) > 0 {
		return errs.Newf(errs.ErrRunBusinessFailed, "diagnose.all",
			"%d/%d diagnoses failed: %s", len(failed), total, strings.Join(failed, ", ")).
			WithURL(rt.Config.BaseURL)
	}
	rt.Out.Success("Todos los diagnósticos pasaron")
	return nil
}

// diagnose submits the fixture payload of kind and prints its summary. The
// returned error carries the failure reason.
func diagnose(ctx context.Context, rt *Runtime, kind v1.DiagnosisKind) error {
	rt.Out.Header(fmt.Sprintf("Diagnóstico %s", kind))
	rt.Out.KV("URL:", rt.Config.BaseURL+kind.Path())

	sp := rt.Out.NewSpinner("Enviando diagnóstico")
	sp.Start()
	res := rt.Client.Analyze(ctx, rt.Config.BaseURL, kind.Path(), v1.FixturePayload(kind))
	sp.Stop(res.OK())

	probe.ReportDiagnosis(rt.Out, res)
	return probe.AnalysisFailure(res)
}
