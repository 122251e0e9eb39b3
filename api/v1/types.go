// Package v1 defines the public data types shared across all apiprobe layers.
package v1

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Stages
// ─────────────────────────────────────────────────────────────────────────────

// Stage names one step of a probe run. Stages execute in declaration order;
// FallbackSweep and ColdStartRetry are skipped once a ping has succeeded.
type Stage string

const (
	StagePrimary        Stage = "primary"
	StageFallbackSweep  Stage = "fallback-sweep"
	StageColdStartRetry Stage = "cold-start-retry"
	StageBusinessProbe  Stage = "business-probe"
	StageDone           Stage = "done"
)

// IsSuccess reports whether code is in the 2xx class.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// ─────────────────────────────────────────────────────────────────────────────
// Probe results
// ─────────────────────────────────────────────────────────────────────────────

// PingResult is the outcome of a GET against a service root.
type PingResult struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"` // 0 when the request never got a response
	Body       []byte        `json:"-"`
	Err        error         `json:"-"` // transport-level fault
	Latency    time.Duration `json:"latency"`
}

// OK reports whether the service answered with a 2xx status. The body is
// never considered.
func (r PingResult) OK() bool {
	return r.Err == nil && IsSuccess(r.StatusCode)
}

// AnalysisResult is the outcome of a diagnostic submission.
type AnalysisResult struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Body       []byte        `json:"-"`
	Decoded    any           `json:"-"` // nil unless DecodeErr is nil
	DecodeErr  error         `json:"-"`
	Err        error         `json:"-"`
	Latency    time.Duration `json:"latency"`
}

// OK reports whether the submission returned a 2xx status with a decodable body.
func (r AnalysisResult) OK() bool {
	return r.Err == nil && r.DecodeErr == nil && IsSuccess(r.StatusCode)
}

// Fields returns the decoded body as an object, or nil when the body was not
// a JSON object.
func (r AnalysisResult) Fields() map[string]any {
	m, _ := r.Decoded.(map[string]any)
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Run outcome
// ─────────────────────────────────────────────────────────────────────────────

// Outcome summarises one full probe run.
type Outcome struct {
	RunID           string  `json:"run_id"`
	BaseURL         string  `json:"base_url"` // URL the business probe was issued against
	PingOK          bool    `json:"ping_ok"`
	BusinessOK      bool    `json:"business_ok"`
	ColdStartWaited bool    `json:"cold_start_waited"`
	Stages          []Stage `json:"stages"`
}

// ExitCode is 0 when the business probe succeeded and 1 otherwise. The ping
// verdict only influences which URL was used.
func (o Outcome) ExitCode() int {
	if o.BusinessOK {
		return 0
	}
	return 1
}
