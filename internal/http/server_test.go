package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/filingd/internal/extraction"
)

const testFiling10K = `ITEM 15. EXHIBITS

EXHIBIT 21
Subsidiaries of the Registrant

Acme Ireland Ltd (Ireland)
Acme Japan KK (Japan)

EXHIBIT 22
SIGNATURES
`

const testFilingDEF14A = `PROXY STATEMENT

DIRECTORS AND EXECUTIVE OFFICERS

Timothy D. Cook, Chief Executive Officer
he has served in senior finance roles since 2013 and previously led global treasury operations across several international markets.
Katherine Adams, General Counsel

EXECUTIVE COMPENSATION

SECURITY OWNERSHIP OF CERTAIN BENEFICIAL OWNERS

the following table sets forth ownership information:

Vanguard Group – 7.32%
Berkshire Hathaway 5.45%

PROPOSAL 1
`

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	extractor, err := extraction.NewDocumentExtractor(extraction.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	server, err := NewServer(extractor, zap.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func TestNewServer(t *testing.T) {
	t.Run("creates server with valid config", func(t *testing.T) {
		extractor, err := extraction.NewDocumentExtractor(extraction.DefaultConfig(), zap.NewNop())
		require.NoError(t, err)

		cfg := &Config{
			Host:      "localhost",
			Port:      8080,
			MaxFileMB: 50,
		}

		server, err := NewServer(extractor, zap.NewNop(), cfg)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.echo)
		assert.Equal(t, cfg, server.config)
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		extractor, err := extraction.NewDocumentExtractor(extraction.DefaultConfig(), zap.NewNop())
		require.NoError(t, err)

		server, err := NewServer(extractor, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", server.config.Host)
		assert.Equal(t, 8080, server.config.Port)
		assert.Equal(t, 50, server.config.MaxFileMB)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		extractor, err := extraction.NewDocumentExtractor(extraction.DefaultConfig(), zap.NewNop())
		require.NoError(t, err)

		_, err = NewServer(extractor, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when extractor is nil", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "extractor cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleAnalyzeText(t *testing.T) {
	t.Run("extracts entities from filing text", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(AnalyzeTextRequest{
			Filing10K:    testFiling10K,
			FilingDEF14A: testFilingDEF14A,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AnalysisResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AnalysisID)
		assert.False(t, resp.ExtractedAt.IsZero())

		require.Len(t, resp.Subsidiaries, 2)
		assert.Equal(t, "Acme Ireland Ltd", resp.Subsidiaries[0].Name)
		assert.Equal(t, "Ireland", resp.Subsidiaries[0].Jurisdiction)

		require.Len(t, resp.Directors, 2)
		assert.Equal(t, "Timothy D. Cook", resp.Directors[0].Name)

		require.Len(t, resp.Owners, 2)
		assert.Equal(t, "Vanguard Group", resp.Owners[0].Name)
		assert.Equal(t, 7.32, resp.Owners[0].Ownership)

		assert.Equal(t, 2, resp.Metrics.TotalSubsidiaries)
		assert.InDelta(t, 12.77, resp.Metrics.OwnershipConcentration, 1e-9)
	})

	t.Run("requires DEF 14A text", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(AnalyzeTextRequest{Filing10K: testFiling10K})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		server := setupTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", strings.NewReader("{not json"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// multipartUpload builds a multipart body with the given form files.
func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field := range files {
		part, err := w.CreateFormFile(field, field+".txt")
		require.NoError(t, err)
		_, err = io.WriteString(part, files[field])
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleAnalyze(t *testing.T) {
	t.Run("analyzes uploaded filings", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartUpload(t, map[string]string{
			fieldDEF14A: testFilingDEF14A,
			field10K:    testFiling10K,
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AnalysisResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.Len(t, resp.Subsidiaries, 2)
		assert.Len(t, resp.Directors, 2)
		assert.Len(t, resp.Owners, 2)
	})

	t.Run("works without optional 10-K", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartUpload(t, map[string]string{
			fieldDEF14A: testFilingDEF14A,
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AnalysisResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		// No 10-K means no subsidiary fallback either
		assert.Empty(t, resp.Subsidiaries)
		assert.Len(t, resp.Directors, 2)
	})

	t.Run("requires DEF 14A file", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartUpload(t, map[string]string{
			field10K: testFiling10K,
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unsupported file type", func(t *testing.T) {
		server := setupTestServer(t)

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(fieldDEF14A, "def14a.docx")
		require.NoError(t, err)
		_, err = io.WriteString(part, testFilingDEF14A)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty DEF 14A content", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartUpload(t, map[string]string{
			fieldDEF14A: "",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleSample(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sample", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SampleResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Len(t, resp.Subsidiaries, 7)
	assert.Len(t, resp.Directors, 4)
	assert.Len(t, resp.Owners, 3)
	assert.Equal(t, 18.89, resp.Metrics.OwnershipConcentration)
	assert.Equal(t, "MEDIUM", string(resp.Metrics.RiskLevel))
}

func TestHandleExport(t *testing.T) {
	t.Run("returns posted JSON as attachment", func(t *testing.T) {
		server := setupTestServer(t)

		payload := `{"subsidiaries":[],"metrics":{"risk_level":"LOW"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/export", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), ".json")

		var roundTripped map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roundTripped))
		assert.Contains(t, roundTripped, "metrics")
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		server := setupTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/export", strings.NewReader("not json"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
