package importers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink/importers"
)

func TestParseFileInsomniaV5DropsRootLevelRequest(t *testing.T) {
	content := []byte(`
name: demo
collection:
  - name: bare request
    url: https://api.example.com/bare
    method: GET
  - name: users
    children:
      - name: list
        url: https://api.example.com/users
        method: GET
`)

	folders, err := importers.ParseFile(content, "demo.yaml")
	require.NoError(t, err)

	// The root-level "bare request" item has a url but no children; it is
	// silently dropped, matching original_source's collect_insomnia_v5_items
	// no-op branch at the top level.
	require.Len(t, folders, 1)
	require.Equal(t, "users", folders[0].Name)
	require.Len(t, folders[0].Requests, 1)
	require.Equal(t, "list", folders[0].Requests[0].Name)
}

func TestParseFileInsomniaV5NestedFolderPath(t *testing.T) {
	content := []byte(`
name: demo
collection:
  - name: outer
    children:
      - name: inner
        children:
          - name: deep request
            url: https://api.example.com/deep
            method: POST
`)

	folders, err := importers.ParseFile(content, "demo.yml")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	require.Equal(t, "outer / inner", folders[0].Name)
	require.Len(t, folders[0].Requests, 1)
}
