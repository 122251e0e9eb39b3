package v1

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the production deployment of the diagnostic service.
const DefaultBaseURL = "https://mentorapp-api-llm-1.onrender.com"

// DefaultFallbackURLs are tried in order when the base URL does not answer.
var DefaultFallbackURLs = []string{
	"https://mentorapp-api-llm-1.onrender.com",
	"https://mentorapp-api-llm.onrender.com",
}

// DiagnosisKind selects one of the service's analysis endpoints.
type DiagnosisKind string

const (
	DiagnosisEmergency DiagnosisKind = "emergencia"
	DiagnosisGeneral   DiagnosisKind = "general"
	DiagnosisDeep      DiagnosisKind = "profundo"
)

// DiagnosisKinds lists every supported kind in display order.
var DiagnosisKinds = []DiagnosisKind{DiagnosisEmergency, DiagnosisGeneral, DiagnosisDeep}

// Path returns the analysis endpoint for k, relative to the base URL.
func (k DiagnosisKind) Path() string {
	return "/api/diagnostico/" + string(k) + "/analyze"
}

// ParseDiagnosisKind resolves a kind name case-insensitively.
func ParseDiagnosisKind(s string) (DiagnosisKind, error) {
	want := DiagnosisKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range DiagnosisKinds {
		if k == want {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown diagnosis kind %q (want one of %s)", s, kindList())
}

func kindList() string {
	names := make([]string, len(DiagnosisKinds))
	for i, k := range DiagnosisKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// GeneralDiagnosisRequest is the submission accepted by the general analysis
// endpoint. Respuestas maps a question key to a single-letter answer code.
type GeneralDiagnosisRequest struct {
	UserID            string            `json:"userId"`
	NombreSolicitante string            `json:"nombreSolicitante"`
	NombreEmpresa     string            `json:"nombreEmpresa"`
	Sector            string            `json:"sector"`
	NumeroEmpleados   string            `json:"numeroEmpleados"`
	Respuestas        map[string]string `json:"respuestas"`
}

// DefaultGeneralRequest returns the fixed smoke-test submission.
func DefaultGeneralRequest() GeneralDiagnosisRequest {
	return GeneralDiagnosisRequest{
		UserID:            "test_prod_001",
		NombreSolicitante: "María Test",
		NombreEmpresa:     "Innovación Digital SA",
		Sector:            "Tecnología",
		NumeroEmpleados:   "25",
		Respuestas: map[string]string{
			"estrategia_1":  "C",
			"estrategia_2":  "B",
			"estrategia_3":  "C",
			"finanzas_1":    "D",
			"finanzas_2":    "C",
			"marketing_1":   "C",
			"operaciones_1": "D",
			"talento_1":     "D",
			"tecnologia_1":  "C",
		},
	}
}

// FixturePayload returns the canned submission used by `apiprobe diagnose`.
func FixturePayload(k DiagnosisKind) any {
	switch k {
	case DiagnosisEmergency:
		return map[string]string{
			"userId":                 "test_user_001",
			"nombreSolicitante":      "Juan Pérez",
			"puestoSolicitante":      "Director General",
			"nombreEmpresa":          "TechSolutions MX",
			"problematicaEspecifica": "No tengo efectivo suficiente para cubrir nómina del próximo mes. Las ventas han caído 60% en los últimos 3 meses.",
			"problemaMasUrgente":     "Falta de efectivo para nómina y proveedores críticos",
			"impactoDelProblema":     "Afecta directamente a finanzas, operaciones y personal.",
			"continuidadNegocio":     "4",
			"flujoEfectivo":          "No",
			"ventasDisminuido":       "Si",
			"riesgo_general":         "alto",
		}
	case DiagnosisDeep:
		return map[string]string{
			"userId":                        "test_user_003",
			"nombreEmpresa":                 "Manufactura Avanzada",
			"dg_misionVisionValores":        "4",
			"fa_margenGanancia":             "4",
			"op_procesosDocumentados":       "2",
			"op_estandaresCalidadCumplen":   "2",
			"rh_organigramaFuncionesClaras": "3",
		}
	default:
		return DefaultGeneralRequest()
	}
}

// InsightFields are optional enrichment keys newer service versions attach
// to analysis responses.
var InsightFields = []string{
	"analisis_sentimiento",
	"patrones_detectados",
	"correlaciones_detectadas",
	"predicciones",
	"roadmap_inteligente",
	"recomendaciones_innovadoras",
}
