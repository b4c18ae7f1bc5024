package webui

import (
	"embed"
	"html/template"
	"net/http"
	"sort"

	"github.com/davecgh/go-spew/spew"

	"nearby.onebusaway.org/internal/gtfs"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

// maxDumpedItems keeps the stops and routes pages readable for large feeds.
const maxDumpedItems = 500

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	dataStruct := debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	manager := webUI.GtfsManager

	switch dataType {
	case "status":
		data = manager.Status()
		title = "Index Status"
	case "snapshot":
		snapshot, err := manager.CachedSnapshot()
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = snapshot
		}
		title = "GTFS Snapshot"
	case "feed":
		data = feedStatistics(manager)
		title = "GTFS Static - Feed Statistics"
	case "routes":
		data = routesOf(manager.CurrentIndex())
		title = "GTFS Static - Routes"
	case "stops":
		data = stopsOf(manager.CurrentIndex())
		title = "GTFS Static - Stops"
	default:
		data = map[string]string{
			"error": "Please use one of the following: status, snapshot, feed, routes, stops.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}

func feedStatistics(manager *gtfs.Manager) interface{} {
	snapshot, err := manager.CachedSnapshot()
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	stats, err := gtfs.FeedStatistics(snapshot)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return stats
}

func routesOf(idx *gtfs.Index) interface{} {
	if idx == nil {
		return map[string]string{"error": "no index has been built yet"}
	}
	routes := make([]gtfs.Route, 0, len(idx.Routes))
	for _, route := range idx.Routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	if len(routes) > maxDumpedItems {
		routes = routes[:maxDumpedItems]
	}
	return routes
}

func stopsOf(idx *gtfs.Index) interface{} {
	if idx == nil {
		return map[string]string{"error": "no index has been built yet"}
	}
	stops := idx.Stops
	if len(stops) > maxDumpedItems {
		stops = stops[:maxDumpedItems]
	}
	return stops
}
