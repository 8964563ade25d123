// Package executor implements the Request Executor (spec §4.4): assemble a
// stored or ad-hoc request against an environment's variables, dispatch it,
// and marshal the response envelope. Grounded line-for-line on
// original_source/src/executor.rs's execute_request_handler.
package executor

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	goccyjson "github.com/goccy/go-json"

	"github.com/benitogf/jslink/db"
	"github.com/benitogf/jslink/netproxy"
	"github.com/benitogf/jslink/substitute"
)

// Payload is the execute request body (spec §4.4): optional stored-request
// reference plus optional overrides, or a fully ad-hoc direct execution.
type Payload struct {
	RequestID     *int64            `json:"request_id"`
	EnvironmentID *int64            `json:"environment_id"`
	URL           *string           `json:"url"`
	Method        *string           `json:"method"`
	Body          *string           `json:"body"`
	Headers       map[string]string `json:"headers"`
}

// Response is the wire envelope returned to the caller (spec §6 "Wire
// framing").
type Response struct {
	Status      int               `json:"status"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
	RequestName string            `json:"request_name"`
	RequestURL  string            `json:"request_url"`
}

// Error is the executor's typed error taxonomy, matching
// original_source/src/executor.rs's ExecutorError.
type Error struct {
	Kind string // RequestNotFound, NetworkError, SubstitutionError, DatabaseError
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func notFound(msg string) *Error        { return &Error{Kind: "RequestNotFound", Msg: msg} }
func networkErr(msg string) *Error      { return &Error{Kind: "NetworkError", Msg: msg} }
func substitutionErr(msg string) *Error { return &Error{Kind: "SubstitutionError", Msg: msg} }
func databaseErr() *Error               { return &Error{Kind: "DatabaseError", Msg: "Database error"} }

// Execute runs the full algorithm described in spec §4.4 steps 1-6.
func Execute(store *db.DB, payload Payload) (*Response, error) {
	request, err := assembleRequest(store, payload)
	if err != nil {
		return nil, err
	}

	variables, err := loadEnvironmentVariables(store, payload.EnvironmentID)
	if err != nil {
		return nil, err
	}

	if err := substituteRequest(request, variables); err != nil {
		return nil, err
	}

	client, err := netproxy.LoadClient(store)
	if err != nil {
		return nil, networkErr(err.Error())
	}

	return dispatch(client, request)
}

// assembledRequest is the in-memory working copy of a db.Request used
// during execution (post-override, pre-substitution).
type assembledRequest struct {
	Name         string
	Method       string
	URL          string
	Body         *string
	Headers      *string
	BodyType     string
	BodyContent  *string
	AuthType     string
	AuthToken    *string
	AuthUsername *string
	AuthPassword *string
}

func assembleRequest(store *db.DB, payload Payload) (*assembledRequest, error) {
	if payload.RequestID != nil {
		stored, err := store.GetRequest(*payload.RequestID)
		if err != nil {
			if err == db.ErrNotFound {
				return nil, notFound("Request not found")
			}
			return nil, databaseErr()
		}
		req := &assembledRequest{
			Name: stored.Name, Method: stored.Method, URL: stored.URL,
			Body: stored.Body, Headers: stored.Headers, BodyType: stored.BodyType,
			BodyContent: stored.BodyContent, AuthType: stored.AuthType,
			AuthToken: stored.AuthToken, AuthUsername: stored.AuthUsername,
			AuthPassword: stored.AuthPassword,
		}
		if payload.URL != nil {
			req.URL = *payload.URL
		}
		if payload.Method != nil {
			req.Method = *payload.Method
		}
		if payload.Body != nil {
			req.Body = payload.Body
		}
		if payload.Headers != nil {
			if len(payload.Headers) == 0 {
				req.Headers = nil
			} else {
				encoded, err := goccyjson.Marshal(payload.Headers)
				if err != nil {
					return nil, substitutionErr("Invalid headers")
				}
				s := string(encoded)
				req.Headers = &s
			}
		}
		return req, nil
	}

	if payload.URL == nil || payload.Method == nil {
		return nil, networkErr("URL and method are required for direct execution")
	}
	return &assembledRequest{
		Name: "Direct Request", Method: *payload.Method, URL: *payload.URL,
		Body: payload.Body, AuthType: "none", BodyType: "none",
	}, nil
}

func loadEnvironmentVariables(store *db.DB, environmentID *int64) (map[string]string, error) {
	if environmentID == nil {
		return map[string]string{}, nil
	}
	env, err := store.GetEnvironment(*environmentID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, notFound("Environment not found")
		}
		return nil, databaseErr()
	}
	var vars map[string]string
	if err := goccyjson.Unmarshal([]byte(env.Variables), &vars); err != nil {
		return nil, substitutionErr("Invalid environment variables JSON")
	}
	return vars, nil
}

// substituteRequest runs the Variable Substitutor across URL, body,
// body_content, headers (as a raw JSON string), auth_token, auth_username,
// auth_password, in that order, per spec §4.4 step 3.
func substituteRequest(req *assembledRequest, vars map[string]string) error {
	var err error
	if req.URL, err = substitute.Substitute(req.URL, vars); err != nil {
		return substitutionErr(err.Error())
	}
	if req.Body != nil {
		v, err := substitute.Substitute(*req.Body, vars)
		if err != nil {
			return substitutionErr(err.Error())
		}
		req.Body = &v
	}
	if req.BodyContent != nil {
		v, err := substitute.Substitute(*req.BodyContent, vars)
		if err != nil {
			return substitutionErr(err.Error())
		}
		req.BodyContent = &v
	}
	if req.Headers != nil {
		v, err := substitute.Substitute(*req.Headers, vars)
		if err != nil {
			return substitutionErr(err.Error())
		}
		req.Headers = &v
	}
	if req.AuthToken != nil {
		v, err := substitute.Substitute(*req.AuthToken, vars)
		if err != nil {
			return substitutionErr(err.Error())
		}
		req.AuthToken = &v
	}
	if req.AuthUsername != nil {
		v, err := substitute.Substitute(*req.AuthUsername, vars)
		if err != nil {
			return substitutionErr(err.Error())
		}
		req.AuthUsername = &v
	}
	if req.AuthPassword != nil {
		v, err := substitute.Substitute(*req.AuthPassword, vars)
		if err != nil {
			return substitutionErr(err.Error())
		}
		req.AuthPassword = &v
	}
	return nil
}

// dispatch composes the outgoing *http.Request per spec §4.4 step 5, sends
// it, and marshals the response envelope (step 6).
func dispatch(client *http.Client, req *assembledRequest) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if !isValidMethodToken(method) {
		return nil, networkErr(fmt.Sprintf("Invalid HTTP method: %s", req.Method))
	}

	var bodyReader io.Reader
	var contentType string
	if req.BodyContent != nil {
		switch req.BodyType {
		case "json":
			bodyReader = strings.NewReader(*req.BodyContent)
			contentType = "application/json"
		case "xml":
			bodyReader = strings.NewReader(*req.BodyContent)
			contentType = "application/xml"
		case "text":
			bodyReader = strings.NewReader(*req.BodyContent)
			contentType = "text/plain"
		case "form":
			encoded, err := encodeForm(*req.BodyContent)
			if err != nil {
				return nil, substitutionErr(err.Error())
			}
			bodyReader = strings.NewReader(encoded)
			contentType = "application/x-www-form-urlencoded"
		case "multipart":
			body, ct, err := encodeMultipart(*req.BodyContent)
			if err != nil {
				return nil, substitutionErr(err.Error())
			}
			bodyReader = body
			contentType = ct
		case "binary":
			bodyReader = strings.NewReader(*req.BodyContent)
			contentType = "application/octet-stream"
		}
	} else if req.Body != nil {
		bodyReader = strings.NewReader(*req.Body)
	}

	httpReq, err := http.NewRequest(method, req.URL, bodyReader)
	if err != nil {
		return nil, networkErr(err.Error())
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	switch req.AuthType {
	case "bearer":
		if req.AuthToken != nil && *req.AuthToken != "" {
			httpReq.Header.Set("Authorization", "Bearer "+*req.AuthToken)
		}
	case "basic":
		if req.AuthUsername != nil && req.AuthPassword != nil {
			httpReq.SetBasicAuth(*req.AuthUsername, *req.AuthPassword)
		}
	}

	if req.Headers != nil {
		var headerMap map[string]string
		if err := goccyjson.Unmarshal([]byte(*req.Headers), &headerMap); err != nil {
			return nil, substitutionErr("Invalid headers JSON")
		}
		for k, v := range headerMap {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, networkErr(err.Error())
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkErr(err.Error())
	}

	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &Response{
		Status:      resp.StatusCode,
		Headers:     headers,
		Body:        string(bodyBytes),
		RequestName: req.Name,
		RequestURL:  req.URL,
	}, nil
}

func isValidMethodToken(method string) bool {
	if method == "" {
		return false
	}
	for _, r := range method {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func encodeForm(content string) (string, error) {
	var fields map[string]string
	if err := goccyjson.Unmarshal([]byte(content), &fields); err != nil {
		return "", err
	}
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	return values.Encode(), nil
}

func encodeMultipart(content string) (io.Reader, string, error) {
	var fields map[string]string
	if err := goccyjson.Unmarshal([]byte(content), &fields); err != nil {
		return nil, "", err
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &body, writer.FormDataContentType(), nil
}
