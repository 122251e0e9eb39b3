// Package runner drives a full smoke-test run: ping the base URL, sweep the
// fallback URLs, wait out a cold start, then submit the business request.
package runner

import (
	"context"
	"time"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/internal/core/logger"
	"github.com/f9-o/apiprobe/internal/probe"
	"github.com/f9-o/apiprobe/pkg/errs"
	"github.com/f9-o/apiprobe/pkg/netutil"
	"github.com/f9-o/apiprobe/pkg/pprint"
)

// DefaultColdStartDelay is how long a dormant deployment gets to wake up
// before the last ping.
const DefaultColdStartDelay = 60 * time.Second

// Prober is the subset of *probe.Client the runner needs.
type Prober interface {
	Ping(ctx context.Context, base string) v1.PingResult
	AnalyzeGeneral(ctx context.Context, base string, req v1.GeneralDiagnosisRequest) v1.AnalysisResult
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Options configures a Runner.
type Options struct {
	BaseURL        string
	FallbackURLs   []string
	ColdStartDelay time.Duration
	Payload        v1.GeneralDiagnosisRequest
	RunID          string

	// Wait replaces the countdown shown during the cold-start delay.
	Wait WaitFunc
}

// Runner executes the stages of one probe run. A Runner is single-use.
type Runner struct {
	probe Prober
	out   *pprint.Printer
	log   *logger.Logger
	opts  Options

	base    string
	outcome v1.Outcome
}

// New constructs a Runner.
func New(p Prober, out *pprint.Printer, log *logger.Logger, opts Options) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Wait == nil {
		opts.Wait = func(ctx context.Context, d time.Duration) error {
			return out.Countdown(ctx, "Esperando cold start", d)
		}
	}
	return &Runner{probe: p, out: out, log: log, opts: opts}
}

// Run walks the stages in order and returns the outcome. The business probe
// always runs, whatever the pings reported; the only error is an
// interruption during the cold-start wait.
func (r *Runner) Run(ctx context.Context) (v1.Outcome, error) {
	r.base = r.opts.BaseURL
	r.outcome = v1.Outcome{RunID: r.opts.RunID}

	r.out.KV("API Base:", r.base)
	r.out.Info("Testing production API...")

	stage := v1.StagePrimary
	for stage != v1.StageDone {
		r.outcome.Stages = append(r.outcome.Stages, stage)
		r.log.Debug("stage", "stage", stage, "base", r.base)

		var err error
		stage, err = r.step(ctx, stage)
		if err != nil {
			r.outcome.BaseURL = r.base
			return r.outcome, err
		}
	}

	r.outcome.BaseURL = r.base
	PrintSummary(r.out, r.outcome)

	r.log.Info("run finished",
		"base", r.outcome.BaseURL,
		"ping_ok", r.outcome.PingOK,
		"business_ok", r.outcome.BusinessOK,
		"cold_start_waited", r.outcome.ColdStartWaited,
	)
	return r.outcome, nil
}

// step executes one stage and returns the next.
func (r *Runner) step(ctx context.Context, stage v1.Stage) (v1.Stage, error) {
	switch stage {
	case v1.StagePrimary:
		r.outcome.PingOK = r.ping(ctx, r.base)
		if r.outcome.PingOK {
			return v1.StageBusinessProbe, nil
		}
		return v1.StageFallbackSweep, nil

	case v1.StageFallbackSweep:
		r.sweep(ctx)
		if r.outcome.PingOK {
			return v1.StageBusinessProbe, nil
		}
		return v1.StageColdStartRetry, nil

	case v1.StageColdStartRetry:
		delay := r.opts.ColdStartDelay
		r.out.Println()
		r.out.Warn("El servicio puede estar en cold start. Esperando %s...", delay)
		if err := r.opts.Wait(ctx, delay); err != nil {
			return v1.StageDone, errs.Wrap(err, errs.ErrRunInterrupted, "run.cold-start").WithURL(r.base)
		}
		r.outcome.ColdStartWaited = true
		r.outcome.PingOK = r.ping(ctx, r.base)
		return v1.StageBusinessProbe, nil

	case v1.StageBusinessProbe:
		r.outcome.BusinessOK = r.business(ctx)
		return v1.StageDone, nil
	}
	return v1.StageDone, nil
}

// sweep pings each fallback URL in order, adopting the first that answers.
func (r *Runner) sweep(ctx context.Context) {
	r.out.Println()
	r.out.Warn("Ping falló. Probando URLs alternativas...")

	tried := r.base
	for _, alt := range r.opts.FallbackURLs {
		if netutil.SameBaseURL(alt, tried) {
			continue
		}
		r.out.KV("Probando:", alt)
		if r.ping(ctx, alt) {
			r.base = alt
			r.outcome.PingOK = true
			r.out.Success("Esta URL responde: %s", alt)
			r.log.Info("adopted fallback url", "from", tried, "to", alt)
			return
		}
	}
}

func (r *Runner) ping(ctx context.Context, base string) bool {
	r.out.Header("1. Ping")
	res := r.probe.Ping(ctx, base)
	probe.ReportPing(r.out, res)

	if err := probe.PingFailure(res); err != nil {
		r.log.Info("ping failed", "url", res.URL, "err", err)
		return false
	}
	return true
}

func (r *Runner) business(ctx context.Context) bool {
	r.out.Header("2. Diagnóstico General (formato Mentoria)")

	sp := r.out.NewSpinner("Enviando diagnóstico")
	sp.Start()
	res := r.probe.AnalyzeGeneral(ctx, r.base, r.opts.Payload)
	sp.Stop(res.OK())

	probe.ReportGeneral(r.out, res)

	if err := probe.AnalysisFailure(res); err != nil {
		r.log.Info("business probe failed", "url", res.URL, "err", err)
		return false
	}
	return true
}

// PrintSummary prints the final verdicts.
func PrintSummary(p *pprint.Printer, o v1.Outcome) {
	p.Header("Resumen")
	p.Verdict("Ping:", o.PingOK)
	p.Verdict("Diagnóstico General:", o.BusinessOK)
	if o.ColdStartWaited {
		p.Info("Se esperó cold start antes del último ping")
	}
}
