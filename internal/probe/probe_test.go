package probe_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/internal/probe"
	"github.com/f9-o/apiprobe/pkg/errs"
	"github.com/f9-o/apiprobe/pkg/jsonutil"
	"github.com/f9-o/apiprobe/pkg/pprint"
)

func newPrinter() (*pprint.Printer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return pprint.New(out, out), out
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// closedURL returns the address of a server that is no longer listening.
func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestPing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		wantOK bool
	}{
		{"json body", http.StatusOK, `{"status":"ok","msg":"online"}`, true},
		{"invalid json", http.StatusOK, `{"status":`, true},
		{"empty body", http.StatusOK, ``, true},
		{"no content", http.StatusNoContent, ``, true},
		{"not found", http.StatusNotFound, `{"detail":"Not Found"}`, false},
		{"server error", http.StatusInternalServerError, `boom`, false},
		{"unavailable", http.StatusServiceUnavailable, ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			c := probe.NewClient(0, nil)

			res := c.Ping(context.Background(), srv.URL)
			if res.OK() != tt.wantOK {
				t.Errorf("Ping().OK() = %v, want %v (status %d)", res.OK(), tt.wantOK, res.StatusCode)
			}
			if res.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", res.StatusCode, tt.status)
			}
			if (probe.PingFailure(res) == nil) != tt.wantOK {
				t.Errorf("PingFailure() = %v", probe.PingFailure(res))
			}
		})
	}
}

func TestPingHitsRoot(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
	}))
	defer srv.Close()

	probe.NewClient(0, nil).Ping(context.Background(), srv.URL+"/")
	if gotMethod != http.MethodGet || gotPath != "/" {
		t.Errorf("request = %s %s, want GET /", gotMethod, gotPath)
	}
}

func TestPingTransportFailure(t *testing.T) {
	res := probe.NewClient(0, nil).Ping(context.Background(), closedURL(t))
	if res.OK() {
		t.Fatal("expected ping against a closed server to fail")
	}
	if res.Err == nil {
		t.Fatal("expected transport error to be captured on the result")
	}
	if !errs.IsCode(probe.PingFailure(res), errs.ErrProbeTransport) {
		t.Errorf("PingFailure() = %v, want transport code", probe.PingFailure(res))
	}

	p, out := newPrinter()
	probe.ReportPing(p, res)
	if !strings.Contains(out.String(), "Error:") {
		t.Errorf("output = %q", out.String())
	}
}

func TestReportPingPreview(t *testing.T) {
	t.Run("json is pretty printed", func(t *testing.T) {
		p, out := newPrinter()
		probe.ReportPing(p, v1.PingResult{StatusCode: 200, Body: []byte(`{"status":"ok"}`)})
		got := out.String()
		if !strings.Contains(got, "Response:") || !strings.Contains(got, "\"status\": \"ok\"") {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("pretty json is truncated", func(t *testing.T) {
		p, out := newPrinter()
		body := `{"msg":"` + strings.Repeat("y", 1000) + `"}`
		probe.ReportPing(p, v1.PingResult{StatusCode: 200, Body: []byte(body)})
		got := out.String()
		if !strings.Contains(got, "\"msg\": \"y") {
			t.Errorf("output = %q", got)
		}
		if strings.Contains(got, strings.Repeat("y", probe.PingPreviewLimit)) {
			t.Error("pretty preview exceeds the ping preview limit")
		}
	})

	t.Run("raw text is truncated", func(t *testing.T) {
		p, out := newPrinter()
		body := strings.Repeat("x", 1000)
		probe.ReportPing(p, v1.PingResult{StatusCode: 200, Body: []byte(body)})
		got := out.String()
		if !strings.Contains(got, "Response (raw):") {
			t.Errorf("output = %q", got)
		}
		if strings.Contains(got, strings.Repeat("x", probe.PingPreviewLimit+1)) {
			t.Error("raw preview exceeds the ping preview limit")
		}
		if !strings.Contains(got, strings.Repeat("x", probe.PingPreviewLimit)) {
			t.Error("raw preview shorter than the ping preview limit")
		}
	})
}

func TestAnalyzeGeneralRequestShape(t *testing.T) {
	var (
		gotMethod, gotPath, gotType string
		gotBody                     map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = jsonutil.Unmarshal(data, &gotBody)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	probe.NewClient(0, nil).AnalyzeGeneral(context.Background(), srv.URL, v1.DefaultGeneralRequest())

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/api/diagnostico/general/analyze" {
		t.Errorf("path = %s", gotPath)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	for _, key := range []string{"userId", "nombreSolicitante", "nombreEmpresa", "sector", "numeroEmpleados", "respuestas"} {
		if _, ok := gotBody[key]; !ok {
			t.Errorf("request body missing %q: %v", key, gotBody)
		}
	}
	if gotBody["userId"] != "test_prod_001" {
		t.Errorf("userId = %v", gotBody["userId"])
	}
	answers, _ := gotBody["respuestas"].(map[string]any)
	if answers["estrategia_1"] != "C" || len(answers) != 9 {
		t.Errorf("respuestas = %v", answers)
	}
}

func TestAnalyzeGeneralSuccess(t *testing.T) {
	srv := serve(t, http.StatusOK, `{
		"resumen_ejecutivo": "La empresa muestra un nivel intermedio de madurez.",
		"nivel_madurez_general": "Medio",
		"puntuacion_madurez_promedio": 2.5,
		"areas_oportunidad": ["a", "b"]
	}`)

	res := probe.NewClient(0, nil).AnalyzeGeneral(context.Background(), srv.URL, v1.DefaultGeneralRequest())
	if !res.OK() {
		t.Fatalf("OK() = false, failure: %v", probe.AnalysisFailure(res))
	}

	p, out := newPrinter()
	probe.ReportGeneral(p, res)
	got := out.String()

	if !regexp.MustCompile(`areas_oportunidad:\s+2`).MatchString(got) {
		t.Errorf("expected opportunity count 2 in %q", got)
	}
	if !regexp.MustCompile(`nivel_madurez_general:\s+Medio`).MatchString(got) {
		t.Errorf("expected maturity level in %q", got)
	}
	if !regexp.MustCompile(`puntuacion_madurez_promedio:\s+2\.5`).MatchString(got) {
		t.Errorf("expected maturity score in %q", got)
	}
	if !strings.Contains(got, "intermedio de madurez....") {
		t.Errorf("expected summary followed by ellipsis in %q", got)
	}
}

func TestAnalyzeGeneralUnparsableBody(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html>Error</html>`)

	res := probe.NewClient(0, nil).AnalyzeGeneral(context.Background(), srv.URL, v1.DefaultGeneralRequest())
	if res.OK() {
		t.Fatal("OK() = true for an unparsable body")
	}
	if !errs.IsCode(probe.AnalysisFailure(res), errs.ErrProbeDecode) {
		t.Errorf("AnalysisFailure() = %v, want decode code", probe.AnalysisFailure(res))
	}

	p, out := newPrinter()
	probe.ReportGeneral(p, res)
	got := out.String()
	if !strings.Contains(got, "Response (raw):") || !strings.Contains(got, "<html>Error</html>") {
		t.Errorf("output = %q", got)
	}
	if strings.Contains(got, "areas_oportunidad") {
		t.Error("fields must not be extracted from an unparsable body")
	}
}

func TestAnalyzeGeneralErrorStatus(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `{"detail":"LLM timeout","code":"E_LLM"}`)

	res := probe.NewClient(0, nil).AnalyzeGeneral(context.Background(), srv.URL, v1.DefaultGeneralRequest())
	if res.OK() {
		t.Fatal("OK() = true for a 500")
	}
	if !errs.IsCode(probe.AnalysisFailure(res), errs.ErrProbeStatus) {
		t.Errorf("AnalysisFailure() = %v, want status code", probe.AnalysisFailure(res))
	}

	p, out := newPrinter()
	probe.ReportGeneral(p, res)
	got := out.String()
	for _, want := range []string{"Error response:", `"detail": "LLM timeout"`, `"code": "E_LLM"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestAnalyzeGeneralRawPreviewLimit(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, strings.Repeat("y", 2000))

	res := probe.NewClient(0, nil).AnalyzeGeneral(context.Background(), srv.URL, v1.DefaultGeneralRequest())
	p, out := newPrinter()
	probe.ReportGeneral(p, res)

	if strings.Contains(out.String(), strings.Repeat("y", probe.RawPreviewLimit+1)) {
		t.Error("raw preview exceeds the limit")
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	res := probe.NewClient(0, nil).AnalyzeGeneral(context.Background(), closedURL(t), v1.DefaultGeneralRequest())
	if res.OK() || res.Err == nil {
		t.Fatalf("expected captured transport failure, got %+v", res)
	}
}

type failingDoer struct{ err error }

func (f failingDoer) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestClientWithCustomDoer(t *testing.T) {
	sentinel := errors.New("dns failure")
	c := probe.NewClientWith(failingDoer{err: sentinel}, nil)

	res := c.Ping(context.Background(), "http://unreachable.invalid")
	if !errors.Is(res.Err, sentinel) {
		t.Errorf("Err = %v, want sentinel", res.Err)
	}
}

func TestSummarizeGeneral(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		s := probe.SummarizeGeneral(map[string]any{})
		if s.OpportunityCount != 0 || s.MaturityLevel != "N/A" || s.ExecutiveSummary != "" {
			t.Errorf("SummarizeGeneral(empty) = %+v", s)
		}
	})

	t.Run("non-list opportunities", func(t *testing.T) {
		s := probe.SummarizeGeneral(map[string]any{"areas_oportunidad": "none"})
		if s.OpportunityCount != 0 {
			t.Errorf("OpportunityCount = %d, want 0", s.OpportunityCount)
		}
	})

	t.Run("integer score", func(t *testing.T) {
		s := probe.SummarizeGeneral(map[string]any{"puntuacion_madurez_promedio": float64(3)})
		if s.MaturityScore != "3" {
			t.Errorf("MaturityScore = %q, want 3", s.MaturityScore)
		}
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"diagnóstico", 7, "diagnós"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := probe.Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestReportDiagnosisShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "emergency",
			body: `{"diagnostico_rapido":"Crisis de liquidez","riesgo_general":"alto","predicciones":[]}`,
			want: []string{"diagnostico_rapido:", "Crisis de liquidez...", "alto", "predicciones"},
		},
		{
			name: "general",
			body: `{"resumen_ejecutivo":"ok","areas_oportunidad":[1,2,3]}`,
			want: []string{"resumen_ejecutivo:", "areas_oportunidad:"},
		},
		{
			name: "deep",
			body: `{"analisis_detallado":"Procesos","roadmap_inteligente":{"tiempo_estimado":"6 meses","impacto_esperado":"alto"}}`,
			want: []string{"analisis_detallado:", "6 meses, impacto: alto", "roadmap_inteligente"},
		},
		{
			name: "unknown",
			body: `{"foo":1}`,
			want: []string{"sin campos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := jsonutil.Decode([]byte(tt.body))
			if err != nil {
				t.Fatalf("decode fixture: %v", err)
			}
			p, out := newPrinter()
			probe.ReportDiagnosis(p, v1.AnalysisResult{StatusCode: 200, Body: []byte(tt.body), Decoded: decoded})
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q missing %q", out.String(), want)
				}
			}
		})
	}
}
