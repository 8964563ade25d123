package jslink

import (
	"net/http"

	goccyjson "github.com/goccy/go-json"
)

// errorBody is the wire shape written by writeError: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// encodeErrorBody marshals msg into the error envelope. Marshaling a
// struct with a single string field cannot fail, so the error is discarded.
func encodeErrorBody(msg string) []byte {
	b, _ := goccyjson.Marshal(errorBody{Error: msg})
	return b
}

// respondJSON writes body as a JSON response with the given status. A
// marshal failure falls back to writeError so callers never need a
// separate error path for encode failures.
func respondJSON(w http.ResponseWriter, status int, body any) {
	encoded, err := goccyjson.Marshal(body)
	if err != nil {
		writeError(w, databaseError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(encoded)
}

// decodeJSON reads and unmarshals r.Body into dest.
func decodeJSON(r *http.Request, dest any) error {
	defer r.Body.Close()
	return goccyjson.NewDecoder(r.Body).Decode(dest)
}
