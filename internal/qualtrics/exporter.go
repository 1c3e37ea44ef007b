package qualtrics

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/httpclient"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
)

// Export job states reported by the API
const (
	StatusComplete = "complete"
	StatusFailed   = "failed"

	tokenHeader = "X-API-TOKEN"
)

type startResponse struct {
	Result struct {
		ProgressID string `json:"progressId"`
	} `json:"result"`
}

type progressResponse struct {
	Result struct {
		Status          string  `json:"status"`
		PercentComplete float64 `json:"percentComplete"`
		FileID          string  `json:"fileId"`
	} `json:"result"`
}

// Exporter downloads survey responses through the response export API
type Exporter struct {
	cfg          config.QualtricsConfig
	client       *httpclient.Client
	token        string
	pollInterval time.Duration
	timeout      time.Duration
	logger       zerolog.Logger
}

// NewExporter creates an exporter. The API token must be non-empty.
func NewExporter(cfg config.QualtricsConfig, client *httpclient.Client, token string, logger zerolog.Logger) (*Exporter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, common.NewConfigurationError("qualtrics_config", "token_env", cfg.TokenEnv+" is not set")
	}
	if cfg.SurveyID == "" {
		return nil, common.NewValidationError("survey_id", cfg.SurveyID, "survey id is required")
	}
	return &Exporter{
		cfg:          cfg,
		client:       client,
		token:        token,
		pollInterval: time.Duration(cfg.PollIntervalSec) * time.Second,
		timeout:      time.Duration(cfg.TimeoutSec) * time.Second,
		logger:       logger.With().Str("component", "QualtricsExporter").Logger(),
	}, nil
}

func (e *Exporter) endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, strings.TrimRight(e.cfg.BaseURL, "/"), "surveys", url.PathEscape(e.cfg.SurveyID), "export-responses")
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}

func (e *Exporter) headers() map[string]string {
	return map[string]string{tokenHeader: e.token}
}

// StartExport requests a CSV export and returns its progress id
func (e *Exporter) StartExport(ctx context.Context) (string, error) {
	body := map[string]string{"format": "csv"}
	if e.cfg.FilterID != "" {
		body["filterId"] = e.cfg.FilterID
	}

	var out startResponse
	req := &httpclient.Request{Method: "POST", URL: e.endpoint(), Headers: e.headers()}
	if _, err := e.client.DoJSON(ctx, req, body, &out); err != nil {
		return "", common.WrapError(err, "failed to start export")
	}
	if out.Result.ProgressID == "" {
		return "", common.NewError("export start response has no progress id")
	}
	e.logger.Info().Str("progress_id", out.Result.ProgressID).Msg("Started export")
	return out.Result.ProgressID, nil
}

// WaitForCompletion polls the export until it completes and returns the file id
func (e *Exporter) WaitForCompletion(ctx context.Context, progressID string) (string, error) {
	deadline := time.Now().Add(e.timeout)
	for {
		var out progressResponse
		req := &httpclient.Request{Method: "GET", URL: e.endpoint(progressID), Headers: e.headers()}
		if _, err := e.client.DoJSON(ctx, req, nil, &out); err != nil {
			return "", common.WrapError(err, "failed to poll export")
		}

		status := out.Result.Status
		e.logger.Info().
			Str("status", status).
			Float64("percent_complete", out.Result.PercentComplete).
			Str("file_id", out.Result.FileID).
			Msg("Export progress")

		switch {
		case status == StatusComplete && out.Result.FileID != "":
			return out.Result.FileID, nil
		case status == StatusFailed:
			return "", common.NewError("export %s failed", progressID)
		}

		if time.Now().After(deadline) {
			return "", common.WrapErrorf(common.ErrTimeout, "export %s not complete after %s", progressID, e.timeout)
		}
		if err := common.WaitWithCancellation(ctx, e.pollInterval); err != nil {
			return "", err
		}
	}
}

// Download fetches the exported file
func (e *Exporter) Download(ctx context.Context, fileID string) ([]byte, error) {
	req := &httpclient.Request{Method: "GET", URL: e.endpoint(fileID, "file"), Headers: e.headers()}
	resp, err := e.client.Do(ctx, req)
	if err != nil {
		return nil, common.WrapError(err, "failed to download export")
	}
	if !resp.IsSuccess() {
		return nil, common.NewHTTPErrorWithURL(resp.StatusCode, "export download failed", req.URL)
	}
	e.logger.Info().Int("bytes", len(resp.Body)).Msg("Downloaded export")
	return resp.Body, nil
}

// Export runs the whole export and returns the responses with the import
// metadata row removed
func (e *Exporter) Export(ctx context.Context) (*table.Frame, error) {
	progressID, err := e.StartExport(ctx)
	if err != nil {
		return nil, err
	}
	fileID, err := e.WaitForCompletion(ctx, progressID)
	if err != nil {
		return nil, err
	}
	data, err := e.Download(ctx, fileID)
	if err != nil {
		return nil, err
	}
	csvData, err := ExtractCSV(data)
	if err != nil {
		return nil, err
	}
	frame, err := table.ReadCSV(bytes.NewReader(csvData))
	if err != nil {
		return nil, common.WrapError(err, "failed to parse exported CSV")
	}
	if removed := DropImportIDRows(frame); removed > 0 {
		e.logger.Info().Int("rows", removed).Msg("Removed import id row")
	}
	return frame, nil
}

// ExtractCSV returns the first .csv member of a zip archive. Data that is not
// a zip archive is returned as is.
func ExtractCSV(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return data, nil
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, common.WrapErrorf(err, "failed to open %s in export archive", f.Name)
		}
		defer rc.Close()
		out, err := io.ReadAll(rc)
		if err != nil {
			return nil, common.WrapErrorf(err, "failed to read %s in export archive", f.Name)
		}
		return out, nil
	}
	return nil, common.WrapError(common.ErrNotFound, "export archive has no .csv member")
}

// DropImportIDRows removes the import metadata rows found among the first two
// data rows
func DropImportIDRows(frame *table.Frame) int {
	return frame.Filter(func(i int) bool {
		if i > 1 {
			return true
		}
		for _, c := range frame.Row(i) {
			if strings.Contains(c.Value, "ImportId") {
				return false
			}
		}
		return true
	})
}
