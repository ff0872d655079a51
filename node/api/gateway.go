package api

import (
	"encoding/base64"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"gitlab.com/NebulousLabs/encoding"

	"gitlab.com/scpcorp/gatewayd/build"
	"gitlab.com/scpcorp/gatewayd/keypair"
	"gitlab.com/scpcorp/gatewayd/modules"
)

type (
	// GatewayInfoGET is the response of GET /info.
	GatewayInfoGET struct {
		modules.GatewayInfo
		Version string `json:"version"`
	}

	// AddGatewayPOST is the response of POST /add_gateway. Transaction is
	// the base64 encoded, signed transaction.
	AddGatewayPOST struct {
		Gateway     string `json:"gateway"`
		Owner       string `json:"owner"`
		Payer       string `json:"payer"`
		Mode        string `json:"mode"`
		Fee         uint64 `json:"fee"`
		StakingFee  uint64 `json:"staking_fee"`
		Transaction string `json:"txn"`
	}
)

// gatewayInfoHandlerGET handles the API call asking for the gateway's state.
func (api *API) gatewayInfoHandlerGET(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	WriteJSON(w, GatewayInfoGET{
		GatewayInfo: api.gateway.Info(),
		Version:     build.Version,
	})
}

// addGatewayHandlerPOST handles the API call asking the gateway to sign an
// add-gateway transaction.
func (api *API) addGatewayHandlerPOST(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	owner, err := keypair.ParsePublicKey(req.FormValue("owner"))
	if err != nil {
		WriteError(w, Error{"unable to parse owner: " + err.Error()}, http.StatusBadRequest)
		return
	}
	payer, err := keypair.ParsePublicKey(req.FormValue("payer"))
	if err != nil {
		WriteError(w, Error{"unable to parse payer: " + err.Error()}, http.StatusBadRequest)
		return
	}
	mode := modules.GatewayModeFull
	if m := req.FormValue("mode"); m != "" {
		mode, err = modules.ParseGatewayMode(m)
		if err != nil {
			WriteError(w, Error{err.Error()}, http.StatusBadRequest)
			return
		}
	}
	txn, err := api.gateway.AddGateway(owner, payer, mode)
	if err != nil {
		WriteError(w, Error{"unable to sign transaction: " + err.Error()}, http.StatusInternalServerError)
		return
	}
	WriteJSON(w, AddGatewayPOST{
		Gateway:     txn.Gateway.String(),
		Owner:       txn.Owner.String(),
		Payer:       txn.Payer.String(),
		Mode:        txn.Mode,
		Fee:         txn.Fee,
		StakingFee:  txn.StakingFee,
		Transaction: base64.StdEncoding.EncodeToString(encoding.Marshal(txn)),
	})
}
