package executor_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink/db"
	"github.com/benitogf/jslink/executor"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExecuteDirectRequest(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ping", r.URL.Path)
		w.Header().Set("X-Test", "1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	}))
	defer upstream.Close()

	store := openTestDB(t)
	url := upstream.URL + "/ping"
	method := "GET"

	resp, err := executor.Execute(store, executor.Payload{URL: &url, Method: &method})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "pong", resp.Body)
	require.Equal(t, "1", resp.Headers["X-Test"])
}

func TestExecuteStoredRequestWithVariableSubstitution(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/42", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.Equal(t, `{"id":"42"}`, string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	store := openTestDB(t)
	env, err := store.CreateEnvironment("local", `{"base":"`+upstream.URL+`","id":"42"}`)
	require.NoError(t, err)

	bodyContent := `{"id":"{{id}}"}`
	stored, err := store.CreateRequest(db.CreateRequestParams{
		Name: "create user", Method: "POST", URL: "{{base}}/users/{{id}}",
		RequestType: "api", BodyType: "json", BodyContent: &bodyContent, AuthType: "none",
	})
	require.NoError(t, err)

	resp, err := executor.Execute(store, executor.Payload{
		RequestID: &stored.ID, EnvironmentID: &env.ID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Status)
}

func TestExecuteUnknownRequestID(t *testing.T) {
	store := openTestDB(t)
	missing := int64(9999)

	_, err := executor.Execute(store, executor.Payload{RequestID: &missing})
	require.Error(t, err)
	execErr, ok := err.(*executor.Error)
	require.True(t, ok)
	require.Equal(t, "RequestNotFound", execErr.Kind)
}

func TestExecuteDirectRequiresURLAndMethod(t *testing.T) {
	store := openTestDB(t)

	_, err := executor.Execute(store, executor.Payload{})
	require.Error(t, err)
	execErr, ok := err.(*executor.Error)
	require.True(t, ok)
	require.Equal(t, "NetworkError", execErr.Kind)
}

func TestExecuteUnresolvedVariableFails(t *testing.T) {
	store := openTestDB(t)
	url := "https://example.com/{{missing}}"
	method := "GET"

	_, err := executor.Execute(store, executor.Payload{URL: &url, Method: &method})
	require.Error(t, err)
	execErr, ok := err.(*executor.Error)
	require.True(t, ok)
	require.Equal(t, "SubstitutionError", execErr.Kind)
}
