package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/output"
	"github.com/sataxfile/taxcalc/internal/service"
)

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
	"csv":  "text/csv",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
	"txt":  "text/plain; charset=utf-8",
}

// TaxYearSummary lists the years the server can calculate.
type TaxYearSummary struct {
	Years       []int `json:"years"`
	DefaultYear int   `json:"default_year"`
}

// TaxHandler handles calculation, validation and tax table endpoints.
type TaxHandler struct {
	svc    service.TaxService
	logger *slog.Logger
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(svc service.TaxService, logger *slog.Logger) *TaxHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxHandler{svc: svc, logger: logger}
}

// bindRequest decodes the JSON body, writing the error response itself on failure.
func (h *TaxHandler) bindRequest(c *gin.Context) (*domain.CalculationRequest, bool) {
	var req domain.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body: "+err.Error())
		return nil, false
	}
	return &req, true
}

// Calculate handles POST /api/v1/calculations
func (h *TaxHandler) Calculate(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	report, err := h.svc.Calculate(c.Request.Context(), req)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, report)
}

// Validate handles POST /api/v1/validations
func (h *TaxHandler) Validate(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	report, err := h.svc.Validate(c.Request.Context(), req)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, report)
}

// ListTaxYears handles GET /api/v1/tax-years
func (h *TaxHandler) ListTaxYears(c *gin.Context) {
	RespondOK(c, TaxYearSummary{Years: h.svc.TaxYears(), DefaultYear: h.svc.DefaultYear()})
}

// GetTaxYear handles GET /api/v1/tax-years/:year
func (h *TaxHandler) GetTaxYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "year must be a positive integer")
		return
	}
	table, err := h.svc.TaxYear(year)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, table)
}

// Report handles POST /api/v1/reports?format=
// The body is the rendered report, not the JSON envelope.
func (h *TaxHandler) Report(c *gin.Context) {
	formatter, err := output.LookupFormatter(c.DefaultQuery("format", "json"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	report, err := h.svc.Report(c.Request.Context(), req)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	data, err := formatter.Format(report)
	if err != nil {
		HandleError(c, h.logger, fmt.Errorf("formatting %s report: %w", formatter.Name(), err))
		return
	}

	ext := output.Extension(formatter.Name())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tax_report_%d.%s"`, report.Result.TaxYear, ext))
	c.Data(http.StatusOK, contentTypes[ext], data)
}

// Liveness handles GET /healthz
func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
