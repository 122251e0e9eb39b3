// Package probe issues the HTTP requests apiprobe makes against the
// diagnostic service and shapes the responses into result values. Transport
// faults never escape as errors: they are captured on the result.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/internal/core/logger"
	"github.com/f9-o/apiprobe/pkg/jsonutil"
	"github.com/f9-o/apiprobe/pkg/netutil"
)

// UserAgent is sent with every request.
const UserAgent = "apiprobe/1.0"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// HTTPDoer is the subset of *http.Client the probes need.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues ping and analysis requests.
type Client struct {
	http HTTPDoer
	log  *logger.Logger
}

// NewClient builds a Client over a fresh http.Client. A zero timeout leaves
// requests without a deadline.
func NewClient(timeout time.Duration, log *logger.Logger) *Client {
	hc := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 5 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
	return NewClientWith(hc, log)
}

// NewClientWith builds a Client over an existing doer.
func NewClientWith(doer HTTPDoer, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{http: doer, log: log}
}

// Ping performs GET {base}/. Any 2xx status counts as reachable.
func (c *Client) Ping(ctx context.Context, base string) v1.PingResult {
	target := netutil.JoinPath(base, "/")
	res := v1.PingResult{URL: target}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.Err = fmt.Errorf("build request: %w", err)
		return res
	}
	req.Header.Set("User-Agent", UserAgent)

	res.StatusCode, res.Body, res.Err = c.do(req)
	res.Latency = time.Since(start)

	c.log.Debug("ping",
		"url", target,
		"status", res.StatusCode,
		"ok", res.OK(),
		logger.Since(start),
	)
	return res
}

// Analyze POSTs payload as JSON to {base}{path} and decodes the response.
func (c *Client) Analyze(ctx context.Context, base, path string, payload any) v1.AnalysisResult {
	target := netutil.JoinPath(base, path)
	res := v1.AnalysisResult{URL: target}
	start := time.Now()

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		res.Err = fmt.Errorf("encode payload: %w", err)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		res.Err = fmt.Errorf("build request: %w", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	res.StatusCode, res.Body, res.Err = c.do(req)
	res.Latency = time.Since(start)
	if res.Err == nil {
		res.Decoded, res.DecodeErr = jsonutil.Decode(res.Body)
	}

	c.log.Debug("analyze",
		"url", target,
		"payload_bytes", len(body),
		"status", res.StatusCode,
		"decoded", res.Err == nil && res.DecodeErr == nil,
		logger.Since(start),
	)
	return res
}

// AnalyzeGeneral submits a general diagnosis.
func (c *Client) AnalyzeGeneral(ctx context.Context, base string, req v1.GeneralDiagnosisRequest) v1.AnalysisResult {
	return c.Analyze(ctx, base, v1.DiagnosisGeneral.Path(), req)
}

// do sends req and reads the whole body. A body that cannot be read in full
// is reported as a transport fault.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, nil
}
