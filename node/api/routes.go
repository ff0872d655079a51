package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

// httpServerTimeout defines the maximum amount of time before an HTTP call
// will timeout and an error will be returned.
const httpServerTimeout = time.Minute

// buildHTTPRoutes sets up the router of api.
func (api *API) buildHTTPRoutes() {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.UnrecognizedCallHandler)
	router.RedirectTrailingSlash = false

	// Daemon API Calls
	router.GET("/daemon/version", api.daemonVersionHandler)

	// Gateway API Calls
	if api.gateway != nil {
		router.GET("/info", api.gatewayInfoHandlerGET)
		router.POST("/add_gateway", api.addGatewayHandlerPOST)
	}

	// Apply UserAgent middleware and return the Router
	api.routerMu.Lock()
	api.router = http.TimeoutHandler(RequireUserAgent(router, api.requiredUserAgent), httpServerTimeout, fmt.Sprintf("HTTP call exceeded the timeout of %v", httpServerTimeout))
	api.routerMu.Unlock()
}

// RequireUserAgent is middleware that requires all requests to set a
// UserAgent that contains the specified string.
func RequireUserAgent(h http.Handler, ua string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !strings.Contains(req.UserAgent(), ua) {
			WriteError(w, Error{"Browser access disabled due to security vulnerability. Use gatewayd."}, http.StatusBadRequest)
			return
		}
		h.ServeHTTP(w, req)
	})
}
