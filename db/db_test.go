package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFolderCRUD(t *testing.T) {
	store := openTestDB(t)

	folder, err := store.CreateFolder("scratch")
	require.NoError(t, err)
	require.Equal(t, "scratch", folder.Name)

	got, err := store.GetFolder(folder.ID)
	require.NoError(t, err)
	require.Equal(t, folder.ID, got.ID)

	updated, err := store.UpdateFolder(folder.ID, "renamed")
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)

	require.NoError(t, store.ArchiveFolder(folder.ID))
	archived, err := store.GetFolder(folder.ID)
	require.NoError(t, err)
	require.NotNil(t, archived.ArchivedAt)

	active, err := store.ListFolders(false)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := store.ListFolders(true)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, store.UnarchiveFolder(folder.ID))
	require.NoError(t, store.DeleteFolder(folder.ID))

	_, err = store.GetFolder(folder.ID)
	require.Equal(t, db.ErrNotFound, err)
}

func TestRequestCRUD(t *testing.T) {
	store := openTestDB(t)

	folder, err := store.CreateFolder("api")
	require.NoError(t, err)

	req, err := store.CreateRequest(db.CreateRequestParams{
		Name: "ping", Method: "GET", URL: "https://example.com",
		FolderID: &folder.ID, RequestType: "api", BodyType: "none", AuthType: "none",
	})
	require.NoError(t, err)
	require.Equal(t, "ping", req.Name)

	got, err := store.GetRequest(req.ID)
	require.NoError(t, err)
	require.Equal(t, "GET", got.Method)

	list, err := store.ListRequests(false, &folder.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := store.UpdateRequest(req.ID, db.CreateRequestParams{
		Name: "ping2", Method: "POST", URL: "https://example.com/2",
		FolderID: &folder.ID, RequestType: "api", BodyType: "none", AuthType: "none",
	})
	require.NoError(t, err)
	require.Equal(t, "POST", updated.Method)

	require.NoError(t, store.ArchiveRequest(req.ID))
	require.NoError(t, store.UnarchiveRequest(req.ID))
	require.NoError(t, store.DeleteRequest(req.ID))

	_, err = store.GetRequest(req.ID)
	require.Equal(t, db.ErrNotFound, err)
}

func TestEnvironmentCRUD(t *testing.T) {
	store := openTestDB(t)

	env, err := store.CreateEnvironment("local", `{"host":"localhost"}`)
	require.NoError(t, err)
	require.Equal(t, "local", env.Name)

	list, err := store.ListEnvironments(false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := store.UpdateEnvironment(env.ID, "local2", `{"host":"127.0.0.1"}`)
	require.NoError(t, err)
	require.Equal(t, "local2", updated.Name)

	require.NoError(t, store.ArchiveEnvironment(env.ID))
	require.NoError(t, store.UnarchiveEnvironment(env.ID))
	require.NoError(t, store.DeleteEnvironment(env.ID))

	_, err = store.GetEnvironment(env.ID)
	require.Equal(t, db.ErrNotFound, err)
}

func TestNetworkSettingsSingleton(t *testing.T) {
	store := openTestDB(t)

	settings, err := store.GetNetworkSettings()
	require.NoError(t, err)
	require.True(t, settings.AutoProxy)

	httpProxy := "http://proxy.local:8080"
	updated, err := store.UpdateNetworkSettings(false, &httpProxy, nil, nil)
	require.NoError(t, err)
	require.False(t, updated.AutoProxy)
	require.Equal(t, &httpProxy, updated.HTTPProxy)
}
