package jslink

import (
	"net/http"

	"github.com/benitogf/jslink/db"
)

type networkSettingsPayload struct {
	AutoProxy  bool    `json:"auto_proxy"`
	HTTPProxy  *string `json:"http_proxy"`
	HTTPSProxy *string `json:"https_proxy"`
	NoProxy    *string `json:"no_proxy"`
}

func (server *Server) getNetworkSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := server.Store.GetNetworkSettings()
	if err != nil {
		if err == db.ErrNotFound {
			writeError(w, notFound("Network settings not found"))
			return
		}
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (server *Server) updateNetworkSettings(w http.ResponseWriter, r *http.Request) {
	var payload networkSettingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, invalidInput("Invalid request body"))
		return
	}
	settings, err := server.Store.UpdateNetworkSettings(payload.AutoProxy, payload.HTTPProxy, payload.HTTPSProxy, payload.NoProxy)
	if err != nil {
		if err == db.ErrNotFound {
			writeError(w, notFound("Network settings not found"))
			return
		}
		writeError(w, databaseError(err))
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
