// Package api is the local HTTP API of a running gateway. The info and add
// subcommands talk to it through the client package.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"gitlab.com/scpcorp/gatewayd/modules"
)

// DefaultUserAgent is the user agent the API requires from callers.
const DefaultUserAgent = "Gatewayd-Agent"

// Error is a type that is encoded as JSON and returned in an API response in
// the event of an error. Only the Message field is required.
type Error struct {
	// Message describes the error in English. Typically it is set to
	// `err.Error()`. This field is required.
	Message string `json:"message"`
}

// Error implements the error interface for the Error type. It returns only the
// Message field.
func (err Error) Error() string {
	return err.Message
}

// API serves the local HTTP interface of a gateway.
type API struct {
	gateway           modules.Gateway
	requiredUserAgent string

	router   http.Handler
	routerMu sync.RWMutex
	srv      *http.Server
}

// New returns an API for g. Requests must carry requiredUserAgent in their
// User-Agent header.
func New(requiredUserAgent string, g modules.Gateway) *API {
	api := &API{
		gateway:           g,
		requiredUserAgent: requiredUserAgent,
	}
	api.buildHTTPRoutes()
	api.srv = &http.Server{
		Handler:           api,
		ReadHeaderTimeout: time.Minute / 2,
	}
	return api
}

// ServeHTTP implements http.Handler.
func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.routerMu.RLock()
	api.router.ServeHTTP(w, r)
	api.routerMu.RUnlock()
}

// Serve accepts connections on l until Close is called. It returns nil after
// Close.
func (api *API) Serve(l net.Listener) error {
	err := api.srv.Serve(l)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the server and closes its listeners.
func (api *API) Close() error {
	return api.srv.Close()
}

// UnrecognizedCallHandler handles calls to unknown pages (404).
func (api *API) UnrecognizedCallHandler(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, Error{"404 - Refer to API.md"}, http.StatusNotFound)
}

// WriteError an error to the API caller.
func WriteError(w http.ResponseWriter, err Error, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	encodingErr := json.NewEncoder(w).Encode(err)
	if _, isJSONErr := encodingErr.(*json.SyntaxError); isJSONErr {
		// Marshalling should only fail in the event of a developer error.
		// Specifically, only non-marshallable types should cause an error here.
		panic("failed to encode API error response: " + encodingErr.Error())
	}
}

// WriteJSON writes the object to the ResponseWriter. If the encoding fails, an
// error is written instead. The Content-Type of the response header is set
// accordingly.
func WriteJSON(w http.ResponseWriter, obj interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	err := json.NewEncoder(w).Encode(obj)
	if _, isJSONErr := err.(*json.SyntaxError); isJSONErr {
		// Marshalling should only fail in the event of a developer error.
		// Specifically, only non-marshallable types should cause an error here.
		panic("failed to encode API response: " + err.Error())
	}
}
