package restapi

import (
	"encoding/json"
	"net/http"
)

// healthHandler reports the index status. It never triggers a refresh.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := api.GtfsManager.Status()

	setJSONResponseType(&w)
	if !status.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		api.Logger.Error("failed to encode health response", "error", err)
	}
}
