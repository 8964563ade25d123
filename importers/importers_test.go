package importers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink/importers"
)

func TestParseFilePostmanV2(t *testing.T) {
	content := []byte(`{
		"info": {"name": "demo", "_postman_id": "abc123"},
		"item": [
			{
				"name": "get user",
				"request": {
					"method": "GET",
					"url": {"raw": "https://api.example.com/users/1"},
					"header": [{"key": "Accept", "value": "application/json"}],
					"auth": {"type": "bearer", "bearer": [{"key": "token", "value": "xyz"}]}
				}
			},
			{
				"name": "folder",
				"item": [
					{
						"name": "create user",
						"request": {
							"method": "POST",
							"url": "https://api.example.com/users",
							"body": {"raw": "{\"name\":\"a\"}"}
						}
					}
				]
			}
		]
	}`)

	folders, err := importers.ParseFile(content, "demo.postman_collection.json")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	require.Equal(t, "demo", folders[0].Name)
	require.Len(t, folders[0].Requests, 2)

	first := folders[0].Requests[0]
	require.Equal(t, "https://api.example.com/users/1", first.URL)
	require.Equal(t, "bearer", first.AuthType)
	require.NotNil(t, first.AuthToken)
	require.Equal(t, "xyz", *first.AuthToken)

	second := folders[0].Requests[1]
	require.Equal(t, "json", second.BodyType)
	require.NotNil(t, second.Body)
}

func TestParseFilePostmanV1(t *testing.T) {
	content := []byte(`{
		"name": "legacy",
		"requests": [
			{"name": "ping", "url": "https://api.example.com/ping", "method": "GET", "headers": "Accept: application/json\n"}
		],
		"folders": []
	}`)

	folders, err := importers.ParseFile(content, "legacy.postman_dump.json")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	require.Equal(t, "legacy", folders[0].Name)
	require.Len(t, folders[0].Requests, 1)
	require.Equal(t, "application/json", folders[0].Requests[0].Headers["Accept"])
}

func TestParseFileThunderClient(t *testing.T) {
	content := []byte(`{
		"clientName": "Thunder Client",
		"collectionName": "demo",
		"folders": [{"_id": "f1", "name": "users"}],
		"requests": [
			{"_id": "r1", "containerId": "f1", "name": "list", "url": "https://api.example.com/users", "method": "GET", "headers": []},
			{"_id": "r2", "containerId": "", "name": "health", "url": "https://api.example.com/health", "method": "GET", "headers": []}
		]
	}`)

	folders, err := importers.ParseFile(content, "thunder-collection.json")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	require.Equal(t, "users", folders[0].Name)
	require.Len(t, folders[0].Requests, 1)
	require.Equal(t, "demo", folders[1].Name)
	require.Len(t, folders[1].Requests, 1)
}

func TestParseFileInsomniaExport(t *testing.T) {
	content := []byte(`{
		"resources": [
			{"_id": "grp1", "_type": "request_group", "name": "users"},
			{"_id": "req1", "_type": "request", "parentId": "grp1", "name": "list", "url": "https://api.example.com/users", "method": "GET", "headers": []}
		]
	}`)

	folders, err := importers.ParseFile(content, "insomnia.collection.insomnia.rest.json")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	require.Equal(t, "users", folders[0].Name)
	require.Len(t, folders[0].Requests, 1)
}

func TestParseFileUnknownFormat(t *testing.T) {
	_, err := importers.ParseFile([]byte(`not a collection`), "random.txt")
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	summaries := importers.Summarize([]importers.ParsedFolder{
		{Name: "a", Requests: []importers.ParsedRequest{{}, {}}},
		{Name: "b", Requests: []importers.ParsedRequest{{}}},
	})
	require.Equal(t, []importers.CollectionSummary{
		{Name: "a", RequestCount: 2},
		{Name: "b", RequestCount: 1},
	}, summaries)
}
