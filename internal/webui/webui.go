package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"nearby.onebusaway.org/internal/app"
)

// WebUI serves the HTML debug pages.
type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
