package jslink_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink"
)

func newTestServer(t *testing.T) *jslink.Server {
	t.Helper()
	server := &jslink.Server{Silence: true, DatabaseURL: ":memory:"}
	server.Start("localhost:0")
	t.Cleanup(func() { server.Close(os.Interrupt) })
	return server
}

func doJSON(t *testing.T, server *jslink.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func TestFolderLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/folders", map[string]string{"name": "scratch"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "scratch", created.Name)

	w = doJSON(t, server, http.MethodGet, "/api/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodPut, "/api/folders/999", map[string]string{"name": "nope"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRequestRejectsInvalidMethod(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/requests", map[string]any{
		"name": "bad", "method": "FETCH", "url": "https://example.com", "request_type": "api",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWsRequestSkipsMethodValidation(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/requests", map[string]any{
		"name": "socket", "method": "", "url": "wss://example.com/socket", "request_type": "ws",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestExecuteDirectOverHTTP(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hi"))
	}))
	defer upstream.Close()

	server := newTestServer(t)
	w := doJSON(t, server, http.MethodPost, "/api/execute-direct", map[string]string{
		"url": upstream.URL, "method": "GET",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int    `json:"status"`
		Body   string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "hi", resp.Body)
}

func TestExecuteDirectMissingURLAndMethodReturnsBadGateway(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/execute-direct", map[string]any{})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var errBody struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	require.Equal(t, "URL and method are required for direct execution", errBody.Error)
}

func TestGetNetworkSettingsOverHTTP(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/settings/network", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var settings struct {
		AutoProxy bool `json:"auto_proxy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	require.True(t, settings.AutoProxy)
}

func TestImportPreviewOverHTTP(t *testing.T) {
	server := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "demo.postman_collection.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`{
		"info": {"name": "demo", "_postman_id": "abc"},
		"item": [{"name": "ping", "request": {"method": "GET", "url": "https://example.com/ping"}}]
	}`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import?preview=true", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Collections []struct {
			Name         string `json:"name"`
			RequestCount int    `json:"request_count"`
		} `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Collections, 1)
	require.Equal(t, 1, body.Collections[0].RequestCount)
}

func TestServeIndexOverHTTP(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
}
