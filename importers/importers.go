// Package importers implements the Import Parser (spec §4.7): detect the
// collection format of an uploaded file by content substring, parse it
// into ParsedFolder/ParsedRequest, and optionally save the result as
// folders/requests. Grounded on original_source/src/importers.rs in full,
// including the detection order and the preserved Insomnia v5 bug
// (root-level request items with no children are silently dropped).
package importers

import (
	"fmt"
	"strings"

	goccyjson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/benitogf/jslink/db"
)

// ParsedRequest is the intermediate shape every format parser produces.
type ParsedRequest struct {
	Name         string            `json:"name"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Body         *string           `json:"body"`
	BodyType     string            `json:"body_type"`
	Headers      map[string]string `json:"headers"`
	AuthType     string            `json:"auth_type"`
	AuthToken    *string           `json:"auth_token"`
	AuthUsername *string           `json:"auth_username"`
	AuthPassword *string           `json:"auth_password"`
}

// ParsedFolder groups requests under a collection/folder name.
type ParsedFolder struct {
	Name     string          `json:"name"`
	Requests []ParsedRequest `json:"requests"`
}

// CollectionSummary is emitted by preview mode: one entry per parsed
// folder with its request count.
type CollectionSummary struct {
	Name         string `json:"name"`
	RequestCount int    `json:"request_count"`
}

// ParseFile detects the collection format from fileName/content and
// dispatches to the matching parser. Order matters: specific formats are
// checked before generic ones, exactly as original_source does.
func ParseFile(content []byte, fileName string) ([]ParsedFolder, error) {
	text := string(content)

	switch {
	case strings.Contains(text, `"clientName": "Thunder Client"`):
		folders, err := parseThunderClient(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Thunder Client export: %w", err)
		}
		return folders, nil

	case strings.Contains(text, `"_postman_id"`) ||
		strings.Contains(text, `"schema": "https://schema.getpostman.com/json/collection/v2`):
		folders, err := parsePostmanV2(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Postman v2 export: %w", err)
		}
		return folders, nil

	case strings.Contains(text, `"requests": [`) && strings.Contains(text, `"folders": [`):
		folders, err := parsePostmanV1(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Postman v1 export: %w", err)
		}
		return folders, nil

	case strings.Contains(text, "collection.insomnia.rest") ||
		strings.Contains(text, `_type": "request_group"`) ||
		strings.HasSuffix(fileName, ".yaml") || strings.HasSuffix(fileName, ".yml"):
		return parseInsomniaAnyFormat(text)

	default:
		return nil, fmt.Errorf("unknown file format: use Postman (v1/v2), Insomnia, or Thunder Client exports")
	}
}

// parseInsomniaAnyFormat tries, in order: JSON export, YAML v5 collection,
// YAML export - matching original_source's three-attempt fallback.
func parseInsomniaAnyFormat(text string) ([]ParsedFolder, error) {
	var jsonExport insomniaExport
	if err := goccyjson.Unmarshal([]byte(text), &jsonExport); err == nil && len(jsonExport.Resources) > 0 {
		return parseInsomniaExport(jsonExport), nil
	}

	var v5 insomniaV5
	if err := yaml.Unmarshal([]byte(text), &v5); err == nil && len(v5.Collection) > 0 {
		return parseInsomniaV5(v5), nil
	}

	var yamlExport insomniaExport
	if err := yaml.Unmarshal([]byte(text), &yamlExport); err == nil && len(yamlExport.Resources) > 0 {
		return parseInsomniaExport(yamlExport), nil
	}

	return nil, fmt.Errorf("detected Insomnia format but failed to parse as JSON export, YAML collection, or YAML export")
}

// SaveImport persists every parsed folder and its requests, returning a
// human-readable summary. Folders with a blank name are saved as
// "import", matching original_source's save_import.
func SaveImport(store *db.DB, folders []ParsedFolder) (string, error) {
	if len(folders) == 0 {
		return "No collections found to import", nil
	}

	total := 0
	for _, folder := range folders {
		name := strings.TrimSpace(folder.Name)
		if name == "" {
			name = "import"
		}
		created, err := store.CreateFolder(name)
		if err != nil {
			return "", fmt.Errorf("failed to create folder %q: %w", name, err)
		}

		for _, req := range folder.Requests {
			headersJSON, err := goccyjson.Marshal(req.Headers)
			if err != nil {
				return "", fmt.Errorf("failed to encode headers for request %q: %w", req.Name, err)
			}
			headers := string(headersJSON)
			folderID := created.ID
			_, err = store.CreateRequest(db.CreateRequestParams{
				Name: req.Name, Method: req.Method, URL: req.URL, Body: req.Body,
				Headers: &headers, FolderID: &folderID, RequestType: "api",
				BodyType: req.BodyType, BodyContent: req.Body, AuthType: req.AuthType,
				AuthToken: req.AuthToken, AuthUsername: req.AuthUsername, AuthPassword: req.AuthPassword,
			})
			if err != nil {
				return "", fmt.Errorf("failed to create request %q: %w", req.Name, err)
			}
			total++
		}
	}

	return fmt.Sprintf("Successfully imported %d requests", total), nil
}

// Summarize builds the preview response (spec §6 "POST /api/import?preview=true").
func Summarize(folders []ParsedFolder) []CollectionSummary {
	summaries := make([]CollectionSummary, len(folders))
	for i, f := range folders {
		summaries[i] = CollectionSummary{Name: f.Name, RequestCount: len(f.Requests)}
	}
	return summaries
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseColonSeparatedHeaders splits Postman v1's "Key: Value\n..." header
// blob, matching original_source's req.headers.lines() loop.
func parseColonSeparatedHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		idx := strings.Index(line, ":")
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key != "" {
			headers[key] = value
		}
	}
	return headers
}
