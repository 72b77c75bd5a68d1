package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "sheetdesk/internal/api/v1"
	"sheetdesk/internal/command"
	"sheetdesk/internal/config"
	"sheetdesk/internal/importer"
	"sheetdesk/internal/metrics"
)

func newTestServer(t *testing.T, devMode bool) *Server {
	t.Helper()

	rec := metrics.NewRecorder()
	coord := importer.NewCoordinator(nil, rec, importer.Options{})
	reg := command.NewRegistry()
	require.NoError(t, command.RegisterDefaults(reg, coord, rec))

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = devMode
	return NewServer(cfg, v1.NewHandler(reg, coord, nil, t.TempDir()), rec)
}

func get(s *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Host = "localhost:20262"
	return serve(s, req)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// importRequest 读取测试工作簿的命令请求，来源和内容类型由调用方指定
func importRequest(t *testing.T, origin, contentType string) *http.Request {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("..", "workbook", "testdata", "cases.xls"))
	require.NoError(t, err)
	args, err := json.Marshal(map[string]string{"filePath": path})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/invoke/import_excel_data", strings.NewReader(string(args)))
	req.Host = "127.0.0.1:20262"
	req.Header.Set("Content-Type", contentType)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, false)
	assert.Equal(t, "127.0.0.1:20262", s.Addr())

	w := get(s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sheetdesk")

	// SPA fallback
	w = get(s, http.MethodGet, "/history")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = get(s, http.MethodGet, "/favicon.svg")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(s, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "import_excel_data")

	w = get(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/invoke/execute_query", nil)
	req.Host = "localhost:20262"
	req.Header.Set("Origin", "http://localhost:20262")
	w := serve(s, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:20262", w.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	w = serve(s, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RefusesCrossOriginImport(t *testing.T) {
	s := newTestServer(t, false)

	for _, ct := range []string{"text/plain", "application/json"} {
		w := serve(s, importRequest(t, "https://evil.example", ct))
		assert.Equal(t, http.StatusForbidden, w.Code, ct)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), ct)
		assert.NotContains(t, w.Body.String(), "阳性", ct)
	}

	// 本机界面发起的同一请求正常返回
	w := serve(s, importRequest(t, "http://127.0.0.1:20262", "application/json"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "http://127.0.0.1:20262", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), "阳性")
}

func TestServer_RefusesForeignHost(t *testing.T) {
	s := newTestServer(t, false)

	req := importRequest(t, "", "application/json")
	req.Host = "evil.example:20262"
	w := serve(s, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "阳性")
}

func TestServer_DevOriginOnlyInDevMode(t *testing.T) {
	w := serve(newTestServer(t, false), importRequest(t, "http://localhost:5173", "application/json"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(newTestServer(t, true), importRequest(t, "http://localhost:5173", "application/json"))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_DevModeRedirect(t *testing.T) {
	s := newTestServer(t, true)

	w := get(s, http.MethodGet, "/history")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://localhost:5173/history", w.Header().Get("Location"))
}
