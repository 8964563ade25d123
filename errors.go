package jslink

import (
	"errors"
	"net/http"
)

// Server lifecycle errors
var (
	ErrServerAlreadyActive = errors.New("jslink: server already active")
	ErrServerStartFailed   = errors.New("jslink: server start failed")
)

// httpError carries the HTTP status a domain error maps to, alongside the
// message written to the response body. Kind mirrors the error taxonomy
// from the workbench's error-handling design: InvalidInput, NotFound,
// SubstitutionError, NetworkError, UpstreamTimeout, DatabaseError.
type httpError struct {
	status int
	kind   string
	msg    string
}

func (e *httpError) Error() string {
	return e.msg
}

func invalidInput(msg string) *httpError {
	return &httpError{status: http.StatusBadRequest, kind: "InvalidInput", msg: msg}
}

func notFound(msg string) *httpError {
	return &httpError{status: http.StatusNotFound, kind: "NotFound", msg: msg}
}

func substitutionError(msg string) *httpError {
	return &httpError{status: http.StatusBadRequest, kind: "SubstitutionError", msg: msg}
}

func networkError(msg string) *httpError {
	return &httpError{status: http.StatusBadGateway, kind: "NetworkError", msg: msg}
}

func upstreamTimeout(msg string) *httpError {
	return &httpError{status: http.StatusBadGateway, kind: "UpstreamTimeout", msg: msg}
}

// databaseError never leaks the underlying driver error to the client, per
// the error-handling design's "details not leaked" rule for DatabaseError.
func databaseError(_ error) *httpError {
	return &httpError{status: http.StatusInternalServerError, kind: "DatabaseError", msg: "Database error"}
}

// writeError writes err to w, translating *httpError into its mapped status
// and message, and falling back to 500 for anything untyped. Mirrors the
// teacher's w.WriteHeader(code); fmt.Fprintf(w, "%s", err) idiom in rest.go,
// generalized from ad hoc errors to the typed httpError taxonomy.
func writeError(w http.ResponseWriter, err error) {
	var he *httpError
	if errors.As(err, &he) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(he.status)
		w.Write(encodeErrorBody(he.msg))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(encodeErrorBody("Database error"))
}
