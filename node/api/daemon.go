package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gitlab.com/scpcorp/gatewayd/build"
)

// DaemonVersion holds the version information for gatewayd
type DaemonVersion struct {
	Version     string `json:"version"`
	GitRevision string `json:"gitrevision"`
	BuildTime   string `json:"buildtime"`
}

// daemonVersionHandler handles the API call that requests the daemon's version.
func (api *API) daemonVersionHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	WriteJSON(w, DaemonVersion{Version: build.Version, GitRevision: build.GitRevision, BuildTime: build.BuildTime})
}
