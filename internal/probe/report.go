package probe

import (
	"fmt"
	"strconv"
	"strings"

	v1 "github.com/f9-o/apiprobe/api/v1"
	"github.com/f9-o/apiprobe/pkg/errs"
	"github.com/f9-o/apiprobe/pkg/jsonutil"
	"github.com/f9-o/apiprobe/pkg/pprint"
)

// Preview limits, in characters.
const (
	PingPreviewLimit    = 300
	RawPreviewLimit     = 400
	SummaryPreviewLimit = 150
)

const notAvailable = "N/A"

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ─────────────────────────────────────────────────────────────────────────────
// Failure reasons
// ─────────────────────────────────────────────────────────────────────────────

// PingFailure explains why r did not succeed, or returns nil when it did.
func PingFailure(r v1.PingResult) error {
	switch {
	case r.Err != nil:
		return errs.New(errs.ErrProbeTransport, "ping", r.Err).WithURL(r.URL)
	case !v1.IsSuccess(r.StatusCode):
		return errs.Newf(errs.ErrProbeStatus, "ping", "status %d", r.StatusCode).WithURL(r.URL)
	}
	return nil
}

// AnalysisFailure explains why r did not succeed, or returns nil when it did.
func AnalysisFailure(r v1.AnalysisResult) error {
	switch {
	case r.Err != nil:
		return errs.New(errs.ErrProbeTransport, "analyze", r.Err).WithURL(r.URL)
	case r.DecodeErr != nil:
		return errs.New(errs.ErrProbeDecode, "analyze", r.DecodeErr).WithURL(r.URL)
	case !v1.IsSuccess(r.StatusCode):
		return errs.Newf(errs.ErrProbeStatus, "analyze", "status %d", r.StatusCode).WithURL(r.URL)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Ping
// ─────────────────────────────────────────────────────────────────────────────

// ReportPing prints the status and a body preview of a ping.
func ReportPing(p *pprint.Printer, r v1.PingResult) {
	if r.Err != nil {
		p.Fail("Error: %v", r.Err)
		return
	}
	p.KV("Status:", strconv.Itoa(r.StatusCode))
	if v, err := jsonutil.Decode(r.Body); err == nil {
		p.Raw("Response:", Truncate(jsonutil.Pretty(v), PingPreviewLimit))
		return
	}
	p.Raw("Response (raw):", Truncate(string(r.Body), PingPreviewLimit))
}

// ─────────────────────────────────────────────────────────────────────────────
// General diagnosis
// ─────────────────────────────────────────────────────────────────────────────

// GeneralSummary holds the fields shown for a successful general diagnosis.
type GeneralSummary struct {
	ExecutiveSummary string
	MaturityLevel    string
	MaturityScore    string
	OpportunityCount int
}

// SummarizeGeneral extracts the display fields from a decoded response.
// Missing fields become empty, N/A or zero.
func SummarizeGeneral(fields map[string]any) GeneralSummary {
	s := GeneralSummary{
		MaturityLevel: notAvailable,
		MaturityScore: notAvailable,
	}
	if v, ok := fields["resumen_ejecutivo"].(string); ok {
		s.ExecutiveSummary = v
	}
	if v, ok := fields["nivel_madurez_general"]; ok && v != nil {
		s.MaturityLevel = scalar(v)
	}
	if v, ok := fields["puntuacion_madurez_promedio"]; ok && v != nil {
		s.MaturityScore = scalar(v)
	}
	if list, ok := fields["areas_oportunidad"].([]any); ok {
		s.OpportunityCount = len(list)
	}
	return s
}

// ReportAnalysis prints an analysis response. Undecodable bodies get a raw
// preview and nothing else; non-2xx bodies are printed in full; successful
// ones are handed to onSuccess.
func ReportAnalysis(p *pprint.Printer, r v1.AnalysisResult, onSuccess func(fields map[string]any)) {
	if r.Err != nil {
		p.Fail("Error: %v", r.Err)
		return
	}
	p.KV("Status:", strconv.Itoa(r.StatusCode))
	if r.DecodeErr != nil {
		p.Raw("Response (raw):", Truncate(string(r.Body), RawPreviewLimit))
		return
	}
	if !v1.IsSuccess(r.StatusCode) {
		p.Raw("Error response:", jsonutil.Pretty(r.Decoded))
		return
	}
	if onSuccess != nil {
		onSuccess(r.Fields())
	}
}

// ReportGeneral prints a general diagnosis response.
func ReportGeneral(p *pprint.Printer, r v1.AnalysisResult) {
	ReportAnalysis(p, r, func(fields map[string]any) {
		printGeneralSummary(p, SummarizeGeneral(fields))
	})
}

func printGeneralSummary(p *pprint.Printer, s GeneralSummary) {
	p.KV("resumen_ejecutivo:", Truncate(s.ExecutiveSummary, SummaryPreviewLimit)+"...")
	p.KV("nivel_madurez_general:", s.MaturityLevel)
	p.KV("puntuacion_madurez_promedio:", s.MaturityScore)
	p.KV("areas_oportunidad:", strconv.Itoa(s.OpportunityCount))
}

// ─────────────────────────────────────────────────────────────────────────────
// Any diagnosis kind
// ─────────────────────────────────────────────────────────────────────────────

// ReportDiagnosis prints a response from any analysis endpoint. The shape is
// recognised by its headline field rather than by the endpoint called.
func ReportDiagnosis(p *pprint.Printer, r v1.AnalysisResult) {
	ReportAnalysis(p, r, func(fields map[string]any) {
		switch {
		case has(fields, "diagnostico_rapido"):
			p.KV("diagnostico_rapido:", Truncate(str(fields["diagnostico_rapido"]), SummaryPreviewLimit)+"...")
			p.KV("riesgo_general:", orNA(fields["riesgo_general"]))
		case has(fields, "resumen_ejecutivo"):
			printGeneralSummary(p, SummarizeGeneral(fields))
		case has(fields, "analisis_detallado"):
			p.KV("analisis_detallado:", Truncate(str(fields["analisis_detallado"]), SummaryPreviewLimit)+"...")
			if rm, ok := fields["roadmap_inteligente"].(map[string]any); ok {
				p.KV("roadmap:", fmt.Sprintf("%s, impacto: %s", orNA(rm["tiempo_estimado"]), orNA(rm["impacto_esperado"])))
			}
		default:
			p.Warn("Respuesta sin campos de resumen reconocidos")
		}

		if found := InsightFieldsPresent(fields); len(found) > 0 {
			p.KV("campos nuevos:", strings.Join(found, ", "))
		}
	})
}

// InsightFieldsPresent lists which of v1.InsightFields appear in fields.
func InsightFieldsPresent(fields map[string]any) []string {
	var found []string
	for _, k := range v1.InsightFields {
		if has(fields, k) {
			found = append(found, k)
		}
	}
	return found
}

// ─────────────────────────────────────────────────────────────────────────────
// Value helpers
// ─────────────────────────────────────────────────────────────────────────────

func has(fields map[string]any, key string) bool {
	_, ok := fields[key]
	return ok
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func orNA(v any) string {
	if v == nil {
		return notAvailable
	}
	return scalar(v)
}

// scalar renders a decoded JSON value the way it appeared on the wire.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := jsonutil.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
