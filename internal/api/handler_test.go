package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sataxfile/taxcalc/internal/api"
	"github.com/sataxfile/taxcalc/internal/config"
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/service"
	"github.com/sataxfile/taxcalc/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const calculationBody = `{
	"age_category": "under_65",
	"income": {"salary": 300000},
	"deductions": {"retirement_contributions": "20000"},
	"tax_paid": {"paye": 45000}
}`

func newMockHandler() (*api.TaxHandler, *mocks.MockTaxService) {
	mockSvc := new(mocks.MockTaxService)
	return api.NewTaxHandler(mockSvc, quietLogger), mockSvc
}

func newTestRouter() *gin.Engine {
	svc := service.NewTaxService(config.DefaultTaxTables(), true, quietLogger)
	return api.Setup(api.NewTaxHandler(svc, quietLogger), quietLogger, 1<<20)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) api.APIResponse {
	t.Helper()
	var resp api.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("loading: %w", domain.ErrUnknownTaxYear), http.StatusNotFound, "UNKNOWN_TAX_YEAR"},
		{domain.ErrUnknownAgeCategory, http.StatusBadRequest, "UNKNOWN_AGE_CATEGORY"},
		{fmt.Errorf("%w: income.salary must not be negative", domain.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{domain.ErrInvalidTaxTable, http.StatusInternalServerError, "INVALID_TAX_TABLE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code, msg := api.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestTaxHandler_Calculate_ServiceError(t *testing.T) {
	h, mockSvc := newMockHandler()
	mockSvc.On("Calculate", mock.Anything, mock.AnythingOfType("*domain.CalculationRequest")).
		Return(nil, fmt.Errorf("resolving: %w", domain.ErrUnknownTaxYear))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/calculations", strings.NewReader(calculationBody))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Calculate(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_TAX_YEAR", resp.Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaxHandler_Calculate_InvalidBody(t *testing.T) {
	h, mockSvc := newMockHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/calculations", strings.NewReader(`{"income": {"salary": "lots"}}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Calculate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything)
}

func TestTaxHandler_Validate_Success(t *testing.T) {
	svc := service.NewTaxService(config.DefaultTaxTables(), true, quietLogger)
	h := api.NewTaxHandler(svc, quietLogger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/validations", strings.NewReader(calculationBody))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Validate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "warning", data["status"])
	assert.Equal(t, float64(1), data["warnings"])
}

func TestTaxHandler_ListTaxYears(t *testing.T) {
	h, mockSvc := newMockHandler()
	mockSvc.On("TaxYears").Return([]int{2024, 2025})
	mockSvc.On("DefaultYear").Return(2025)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/tax-years", http.NoBody)

	h.ListTaxYears(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, []any{float64(2024), float64(2025)}, data["years"])
	assert.Equal(t, float64(2025), data["default_year"])
	mockSvc.AssertExpectations(t)
}

func TestTaxHandler_GetTaxYear(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		setup      func(*mocks.MockTaxService)
		wantStatus int
		wantCode   string
	}{
		{
			name:  "found",
			param: "2025",
			setup: func(m *mocks.MockTaxService) {
				m.On("TaxYear", 2025).Return(&domain.TaxYearTable{Year: 2025, Label: "2025"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "unknown year",
			param: "1999",
			setup: func(m *mocks.MockTaxService) {
				m.On("TaxYear", 1999).Return(nil, domain.ErrUnknownTaxYear)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "UNKNOWN_TAX_YEAR",
		},
		{
			name:       "not a number",
			param:      "latest",
			setup:      func(*mocks.MockTaxService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockSvc := newMockHandler()
			tt.setup(mockSvc)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/tax-years/"+tt.param, http.NoBody)
			c.Params = gin.Params{{Key: "year", Value: tt.param}}

			h.GetTaxYear(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			} else {
				assert.True(t, resp.Success)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTaxHandler_Report_UnsupportedFormat(t *testing.T) {
	h, mockSvc := newMockHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reports?format=html", strings.NewReader(calculationBody))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Report(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", decodeResponse(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
}

func TestRouter_Healthz(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("X-Request-ID", "abc-123")
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_Calculate(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/calculations", strings.NewReader(calculationBody))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Result struct {
				TaxYear          int    `json:"tax_year"`
				NetTaxLiability  string `json:"net_tax_liability"`
				RefundAmount     string `json:"refund_amount"`
				EffectiveTaxRate string `json:"effective_tax_rate"`
			} `json:"result"`
			Audit []struct {
				Key string `json:"key"`
			} `json:"audit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2025, resp.Data.Result.TaxYear)
	assert.Equal(t, "36596.74", resp.Data.Result.NetTaxLiability)
	assert.Equal(t, "8403.26", resp.Data.Result.RefundAmount)
	assert.Equal(t, "12.2", resp.Data.Result.EffectiveTaxRate)
	require.NotEmpty(t, resp.Data.Audit)
	assert.Equal(t, "refund", resp.Data.Audit[len(resp.Data.Audit)-1].Key)
}

func TestRouter_CalculateStrictRejectsNegatives(t *testing.T) {
	body := `{"income": {"salary": 300000, "rental": -100}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/calculations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "income.rental")
}

func TestRouter_CalculateUnknownYear(t *testing.T) {
	body := `{"tax_year": 1999, "income": {"salary": 300000}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/calculations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_TAX_YEAR", decodeResponse(t, w).Error.Code)
}

func TestRouter_TaxYears(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tax-years", http.NoBody)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"years":[2023,2024,2025,2026]`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/tax-years/2023", http.NoBody)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Year     int `json:"year"`
			Brackets []struct {
				Min string `json:"min"`
			} `json:"brackets"`
			Rebates struct {
				Primary string `json:"primary"`
			} `json:"rebates"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2023, resp.Data.Year)
	assert.Len(t, resp.Data.Brackets, 7)
	assert.Equal(t, "16425", resp.Data.Rebates.Primary)
}

func TestRouter_Reports(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		prefix      []byte
	}{
		{"json", "application/json", []byte("{")},
		{"csv", "text/csv", []byte("TaxYear,")},
		{"yaml", "application/yaml", []byte("result:")},
		{"pdf", "application/pdf", []byte("%PDF-")},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK")},
		{"console", "text/plain; charset=utf-8", []byte("=====")},
	}
	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports?format="+tt.format, strings.NewReader(calculationBody))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), "tax_report_2025.")
			assert.True(t, bytes.HasPrefix(w.Body.Bytes(), tt.prefix), "body starts with %q", tt.prefix)
		})
	}
}

func TestRouter_BodyLimit(t *testing.T) {
	svc := service.NewTaxService(config.DefaultTaxTables(), true, quietLogger)
	router := api.Setup(api.NewTaxHandler(svc, quietLogger), quietLogger, 32)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/calculations", strings.NewReader(calculationBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "BODY_TOO_LARGE", decodeResponse(t, w).Error.Code)
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	router := newTestRouter()
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeResponse(t, w).Error.Code)
}
