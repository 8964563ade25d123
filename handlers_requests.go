package jslink

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/benitogf/jslink/db"
)

// requestPayload mirrors original_source/src/requests.rs's CreateRequest/
// UpdateRequest, with the same serde-default-equivalent zero values
// applied in toParams.
type requestPayload struct {
	Name         string  `json:"name"`
	Method       string  `json:"method"`
	URL          string  `json:"url"`
	Body         *string `json:"body"`
	Headers      *string `json:"headers"`
	FolderID     *int64  `json:"folder_id"`
	RequestType  string  `json:"request_type"`
	BodyType     string  `json:"body_type"`
	BodyContent  *string `json:"body_content"`
	AuthType     string  `json:"auth_type"`
	AuthToken    *string `json:"auth_token"`
	AuthUsername *string `json:"auth_username"`
	AuthPassword *string `json:"auth_password"`
}

func (p requestPayload) toParams() db.CreateRequestParams {
	requestType := p.RequestType
	if requestType == "" {
		requestType = "api"
	}
	bodyType := p.BodyType
	if bodyType == "" {
		bodyType = "none"
	}
	authType := p.AuthType
	if authType == "" {
		authType = "none"
	}
	return db.CreateRequestParams{
		Name: p.Name, Method: p.Method, URL: p.URL, Body: p.Body, Headers: p.Headers,
		FolderID: p.FolderID, RequestType: requestType, BodyType: bodyType,
		BodyContent: p.BodyContent, AuthType: authType, AuthToken: p.AuthToken,
		AuthUsername: p.AuthUsername, AuthPassword: p.AuthPassword,
	}
}

// validateRequest enforces the method allow-list for kind=api requests
// only; kind=ws requests are unvalidated (spec §8 "Method validation").
func validateRequest(p requestPayload) error {
	if p.Name == "" {
		return invalidInput("Name cannot be empty")
	}
	if p.RequestType != "ws" && !db.AllowedMethods[strings.ToUpper(p.Method)] {
		return invalidInput("Invalid method: " + p.Method)
	}
	return nil
}

func (server *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var payload requestPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	if err := validateRequest(payload); err != nil {
		writeError(w, err)
		return
	}
	request, err := server.Store.CreateRequest(payload.toParams())
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

func (server *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	var folderID *int64
	if raw := r.URL.Query().Get("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, invalidInput("Invalid folder_id"))
			return
		}
		folderID = &id
	}
	requests, err := server.Store.ListRequests(includeArchived, folderID)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

func (server *Server) getRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	request, err := server.Store.GetRequest(id)
	if err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (server *Server) updateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	var payload requestPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	if err := validateRequest(payload); err != nil {
		writeError(w, err)
		return
	}
	request, err := server.Store.UpdateRequest(id, payload.toParams())
	if err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (server *Server) deleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.DeleteRequest(id); err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) archiveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.ArchiveRequest(id); err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	request, err := server.Store.GetRequest(id)
	if err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (server *Server) unarchiveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.UnarchiveRequest(id); err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	request, err := server.Store.GetRequest(id)
	if err != nil {
		writeError(w, requestLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func requestLookupError(err error) error {
	if err == db.ErrNotFound {
		return notFound("Request not found")
	}
	return databaseError(err)
}
