package jslink

import (
	"net/http"

	"github.com/benitogf/jslink/executor"
)

// execute runs a stored or overridden request (payload may carry
// request_id with optional overrides, or a fully direct url+method).
func (server *Server) execute(w http.ResponseWriter, r *http.Request) {
	var payload executor.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	response, err := executor.Execute(server.Store, payload)
	if err != nil {
		writeError(w, translateExecutorError(err))
		return
	}
	respondJSON(w, http.StatusOK, response)
}

// executeDirect requires url+method in the payload and never consults a
// stored request (spec §6 "POST /api/execute-direct").
func (server *Server) executeDirect(w http.ResponseWriter, r *http.Request) {
	var payload executor.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	payload.RequestID = nil
	response, err := executor.Execute(server.Store, payload)
	if err != nil {
		writeError(w, translateExecutorError(err))
		return
	}
	respondJSON(w, http.StatusOK, response)
}

func translateExecutorError(err error) error {
	execErr, ok := err.(*executor.Error)
	if !ok {
		return databaseError(err)
	}
	switch execErr.Kind {
	case "RequestNotFound":
		return notFound(execErr.Msg)
	case "SubstitutionError":
		return substitutionError(execErr.Msg)
	case "NetworkError":
		return networkError(execErr.Msg)
	case "DatabaseError":
		return databaseError(execErr)
	default:
		return databaseError(execErr)
	}
}
