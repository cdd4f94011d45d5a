// ABOUTME: Analysis handlers for the Huma API
// ABOUTME: Provides HTTP endpoints for running clustering analysis and exporting reports

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"serp-cluster-api/api/dto/mappers"
	"serp-cluster-api/api/dto/requests"
	"serp-cluster-api/api/dto/responses"
	"serp-cluster-api/core/analysis"
	"serp-cluster-api/core/domain"
	"serp-cluster-api/core/report"
)

// AnalysisService interface defines the methods needed from the analysis service
type AnalysisService interface {
	Run(ctx context.Context, req analysis.Request) (*domain.Report, error)
}

// Defaults are the deployment-level values applied when a request
// leaves the corresponding fields empty.
type Defaults struct {
	// Threshold is the overlap threshold (0 keeps the pipeline default)
	Threshold float64

	// Domain is the cannibalization target domain
	Domain string
}

// AnalyzeHandler handles analysis-related HTTP requests
type AnalyzeHandler struct {
	service  AnalysisService
	defaults Defaults
}

// NewAnalyzeHandler creates a new analysis handler
func NewAnalyzeHandler(service AnalysisService, defaults Defaults) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:  service,
		defaults: defaults,
	}
}

// RegisterRoutes registers all analysis-related routes
func (h *AnalyzeHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "analyzeKeywords",
		Method:      http.MethodPost,
		Path:        "/analyze",
		Summary:     "Cluster keywords by SERP overlap",
		Description: "Resolves SERP data for the keywords, clusters them by result overlap, and reports cannibalization findings for the target domain",
		Tags:        []string{"Analysis"},
	}, h.Analyze)

	huma.Register(api, huma.Operation{
		OperationID: "exportAnalysis",
		Method:      http.MethodPost,
		Path:        "/analyze/export",
		Summary:     "Run an analysis and export the report as CSV",
		Description: "Same pipeline as /analyze but returns the flat report as a CSV download",
		Tags:        []string{"Analysis"},
	}, h.Export)

	huma.Register(api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Liveness check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// AnalyzeInput defines the input for the Analyze operation
type AnalyzeInput struct {
	Body requests.AnalyzeRequest `json:"body"`
}

// AnalyzeOutput defines the output for the Analyze operation
type AnalyzeOutput struct {
	Body responses.ReportResponse
}

// Analyze handles the POST /analyze endpoint
func (h *AnalyzeHandler) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	rep, err := h.run(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &AnalyzeOutput{Body: *mappers.ToReportResponse(rep)}, nil
}

// ExportOutput defines the output for the Export operation
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// Export handles the POST /analyze/export endpoint
func (h *AnalyzeHandler) Export(ctx context.Context, input *AnalyzeInput) (*ExportOutput, error) {
	rep, err := h.run(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rep); err != nil {
		return nil, huma.Error500InternalServerError("Failed to render CSV", err)
	}

	return &ExportOutput{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", "report-"+rep.RunID+".csv"),
		Body:               buf.Bytes(),
	}, nil
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body struct {
		Status string `json:"status" doc:"Always ok when the service is up"`
	}
}

// Health handles the GET /healthz endpoint
func (h *AnalyzeHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	return out, nil
}

// run converts the request DTO and executes the pipeline.
func (h *AnalyzeHandler) run(ctx context.Context, body requests.AnalyzeRequest) (*domain.Report, error) {
	body.ApplyDefaults()

	// Deployment defaults fill in what the request left out.
	if body.Threshold == 0 {
		body.Threshold = h.defaults.Threshold
	}
	if body.Domain == "" {
		body.Domain = h.defaults.Domain
	}

	locale := domain.Locale{
		LocationCode: body.LocationCode,
		LanguageCode: body.LanguageCode,
	}

	keywords := make([]domain.Keyword, 0, len(body.Keywords))
	for _, text := range body.Keywords {
		kw, err := domain.NewKeyword(text, locale)
		if err != nil {
			return nil, huma.Error400BadRequest(fmt.Sprintf("invalid keyword %q: %s", text, err))
		}
		keywords = append(keywords, kw)
	}

	rep, err := h.service.Run(ctx, analysis.Request{
		Keywords:  keywords,
		Threshold: body.Threshold,
		Domain:    body.Domain,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return rep, nil
}
