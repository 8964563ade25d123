package jslink

import (
	"net/http"

	"github.com/benitogf/jslink/db"
)

type environmentPayload struct {
	Name      string `json:"name"`
	Variables string `json:"variables"`
}

func (server *Server) createEnvironment(w http.ResponseWriter, r *http.Request) {
	var payload environmentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	if payload.Name == "" {
		writeError(w, invalidInput("Name cannot be empty"))
		return
	}
	if payload.Variables == "" {
		payload.Variables = "{}"
	}
	env, err := server.Store.CreateEnvironment(payload.Name, payload.Variables)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusCreated, env)
}

func (server *Server) listEnvironments(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	envs, err := server.Store.ListEnvironments(includeArchived)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusOK, envs)
}

func (server *Server) getEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	env, err := server.Store.GetEnvironment(id)
	if err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func (server *Server) updateEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	var payload environmentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	if payload.Name == "" {
		writeError(w, invalidInput("Name cannot be empty"))
		return
	}
	if payload.Variables == "" {
		payload.Variables = "{}"
	}
	env, err := server.Store.UpdateEnvironment(id, payload.Name, payload.Variables)
	if err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func (server *Server) deleteEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.DeleteEnvironment(id); err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) archiveEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.ArchiveEnvironment(id); err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	env, err := server.Store.GetEnvironment(id)
	if err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func (server *Server) unarchiveEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, invalidInput("Invalid id"))
		return
	}
	if err := server.Store.UnarchiveEnvironment(id); err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	env, err := server.Store.GetEnvironment(id)
	if err != nil {
		writeError(w, environmentLookupError(err))
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func environmentLookupError(err error) error {
	if err == db.ErrNotFound {
		return notFound("Environment not found")
	}
	return databaseError(err)
}
