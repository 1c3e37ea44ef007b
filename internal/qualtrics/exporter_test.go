package qualtrics

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/httpclient"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportCSV = "StartDate,Q1,Q2\nStart Date,Rating,Comments\n" +
	`"{""ImportId"":""startDate""}","{""ImportId"":""QID1""}","{""ImportId"":""QID2""}"` + "\n" +
	"2024-01-01,5,Great\n"

func zipped(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestExporter(t *testing.T, baseURL string) *Exporter {
	t.Helper()
	client, err := httpclient.NewClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	cfg := config.NewDefaultQualtricsConfig()
	cfg.BaseURL = baseURL
	cfg.SurveyID = "SV_1"
	cfg.FilterID = "filter-1"
	e, err := NewExporter(cfg, client, "secret", zerolog.Nop())
	require.NoError(t, err)
	e.pollInterval = time.Millisecond
	return e
}

func TestExport(t *testing.T) {
	polls := 0
	var started map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-TOKEN") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/surveys/SV_1/export-responses":
			_ = json.NewDecoder(r.Body).Decode(&started)
			_, _ = w.Write([]byte(`{"result":{"progressId":"ES_1"}}`))
		case r.URL.Path == "/surveys/SV_1/export-responses/ES_1":
			polls++
			if polls < 2 {
				_, _ = w.Write([]byte(`{"result":{"status":"inProgress","percentComplete":50}}`))
				return
			}
			_, _ = w.Write([]byte(`{"result":{"status":"complete","percentComplete":100,"fileId":"F_1"}}`))
		case r.URL.Path == "/surveys/SV_1/export-responses/F_1/file":
			_, _ = w.Write(zipped(t, "Survey.csv", exportCSV))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	frame, err := newTestExporter(t, srv.URL).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"format": "csv", "filterId": "filter-1"}, started)
	assert.Equal(t, 2, polls)
	assert.Equal(t, []string{"StartDate", "Q1", "Q2"}, frame.Columns())
	require.Equal(t, 2, frame.Len())
	assert.Equal(t, "Start Date", frame.Get(0, "StartDate").Value)
	assert.Equal(t, "Great", frame.Get(1, "Q2").Value)
}

func TestWaitForCompletion_Failed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"status":"failed"}}`))
	}))
	defer srv.Close()

	_, err := newTestExporter(t, srv.URL).WaitForCompletion(context.Background(), "ES_1")
	assert.ErrorContains(t, err, "failed")
}

func TestWaitForCompletion_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"status":"inProgress"}}`))
	}))
	defer srv.Close()

	e := newTestExporter(t, srv.URL)
	e.timeout = 5 * time.Millisecond
	_, err := e.WaitForCompletion(context.Background(), "ES_1")
	assert.True(t, errors.Is(err, common.ErrTimeout))
}

func TestStartExport_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestExporter(t, srv.URL).StartExport(context.Background())
	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestNewExporter_RequiresToken(t *testing.T) {
	cfg := config.NewDefaultQualtricsConfig()
	cfg.SurveyID = "SV_1"
	_, err := NewExporter(cfg, nil, " ", zerolog.Nop())
	assert.True(t, errors.Is(err, common.ErrInvalidConfiguration))
}

func TestExtractCSV(t *testing.T) {
	out, err := ExtractCSV([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(out))

	_, err = ExtractCSV(zipped(t, "readme.txt", "x"))
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDropImportIDRows(t *testing.T) {
	frame, err := table.ReadCSV(bytes.NewReader([]byte(exportCSV)))
	require.NoError(t, err)
	assert.Equal(t, 1, DropImportIDRows(frame))
	assert.Equal(t, 2, frame.Len())
}
