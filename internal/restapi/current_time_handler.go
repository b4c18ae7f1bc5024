package restapi

import (
	"net/http"

	"nearby.onebusaway.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	timeData := models.NewCurrentTimeData(api.Clock.Now())
	api.sendResponse(w, r, models.NewOKResponse(timeData))
}
