package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/filingd/internal/doctext"
	"github.com/fyrsmithlabs/filingd/internal/extraction"
	"github.com/fyrsmithlabs/filingd/internal/scoring"
)

// Multipart form field names for filing uploads.
const (
	fieldDEF14A = "def14a_file"
	field10K    = "10k_file"
)

// AnalysisResponse is the response body for the analyze endpoints.
type AnalysisResponse struct {
	AnalysisID   string                       `json:"analysis_id"`
	Subsidiaries []extraction.Subsidiary      `json:"subsidiaries"`
	Directors    []extraction.Director        `json:"directors"`
	Owners       []extraction.BeneficialOwner `json:"owners"`
	Metrics      scoring.Metrics              `json:"metrics"`
	ExtractedAt  time.Time                    `json:"extracted_at"`
}

// AnalyzeTextRequest is the request body for POST /api/v1/analyze/text.
type AnalyzeTextRequest struct {
	Filing10K    string `json:"filing_10k"`
	FilingDEF14A string `json:"filing_def14a"`
}

// handleAnalyze accepts filing uploads and runs extraction.
//
// Expects multipart form data with a required "def14a_file" and an
// optional "10k_file", each a PDF or plain-text document.
func (s *Server) handleAnalyze(c echo.Context) error {
	def14aHeader, err := c.FormFile(fieldDEF14A)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "DEF 14A file required")
	}
	if def14aHeader.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please select DEF 14A file")
	}
	if !doctext.Allowed(def14aHeader.Filename) {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("unsupported DEF 14A file type: %s", def14aHeader.Filename))
	}

	def14aText, err := s.readFilingUpload(def14aHeader)
	if err != nil {
		s.logger.Warn("DEF 14A conversion failed",
			zap.String("filename", def14aHeader.Filename),
			zap.Error(err))
		def14aText = ""
	}
	if def14aText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not extract text from DEF 14A")
	}

	// 10-K is optional; a missing, empty, or unreadable upload degrades
	// to empty text.
	var tenKText string
	if tenKHeader, err := c.FormFile(field10K); err == nil &&
		tenKHeader.Filename != "" && doctext.Allowed(tenKHeader.Filename) {
		tenKText, err = s.readFilingUpload(tenKHeader)
		if err != nil {
			s.logger.Warn("10-K conversion failed",
				zap.String("filename", tenKHeader.Filename),
				zap.Error(err))
			tenKText = ""
		}
	}

	return s.analyze(c, tenKText, def14aText)
}

// handleAnalyzeText runs extraction over already-extracted filing text.
func (s *Server) handleAnalyzeText(c echo.Context) error {
	var req AnalyzeTextRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid analyze request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.FilingDEF14A == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "filing_def14a field is required")
	}

	return s.analyze(c, req.Filing10K, req.FilingDEF14A)
}

// analyze runs the extractor and assembles the analysis response.
func (s *Server) analyze(c echo.Context, filing10K, filingDEF14A string) error {
	ctx := c.Request().Context()

	result, err := s.extractor.Extract(ctx, filing10K, filingDEF14A)
	if err != nil {
		s.logger.Error("extraction failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "extraction failed")
	}

	metrics := scoring.Compute(result)

	s.logger.Debug("analysis complete",
		zap.Int("subsidiaries", metrics.TotalSubsidiaries),
		zap.Int("directors", metrics.TotalDirectors),
		zap.Int("owners", metrics.TotalOwners),
		zap.String("risk_level", string(metrics.RiskLevel)))

	return c.JSON(http.StatusOK, AnalysisResponse{
		AnalysisID:   uuid.NewString(),
		Subsidiaries: result.Subsidiaries,
		Directors:    result.Directors,
		Owners:       result.Owners,
		Metrics:      metrics,
		ExtractedAt:  time.Now().UTC(),
	})
}

// readFilingUpload converts one uploaded filing to plain text, enforcing
// the configured per-file size ceiling.
func (s *Server) readFilingUpload(header *multipart.FileHeader) (string, error) {
	maxBytes := int64(s.config.MaxFileMB) << 20
	if header.Size > maxBytes {
		return "", fmt.Errorf("file %q exceeds %dMB limit", header.Filename, s.config.MaxFileMB)
	}

	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("file %q exceeds %dMB limit", header.Filename, s.config.MaxFileMB)
	}

	return doctext.FromUpload(header.Filename, data, maxBytes)
}

// handleExport echoes posted analysis JSON back as a downloadable
// attachment.
func (s *Server) handleExport(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	indented, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode payload")
	}

	filename := fmt.Sprintf("analysis_%s.json", time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, indented)
}
