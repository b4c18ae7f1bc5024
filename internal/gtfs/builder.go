package gtfs

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
)

const (
	routesTable    = "routes.txt"
	tripsTable     = "trips.txt"
	stopsTable     = "stops.txt"
	stopTimesTable = "stop_times.txt"

	maxLineBytes = 1 << 20
)

var requiredTables = []string{routesTable, tripsTable, stopsTable, stopTimesTable}

// BuildIndex reads the routes, trips, stops and stop_times tables of a snapshot and
// joins them into an Index. Rows with missing keys, bad coordinates or unresolved
// references are skipped rather than reported.
func BuildIndex(snapshot *Snapshot) (*Index, error) {
	archive, closeArchive, err := openArchive(snapshot)
	if err != nil {
		return nil, &MalformedArchiveError{Err: err}
	}
	defer closeArchive()

	tables := locateTables(archive.File)
	for _, name := range requiredTables {
		if tables[name] == nil {
			return nil, &MissingTableError{Table: name}
		}
	}

	routes, err := readRoutes(tables[routesTable])
	if err != nil {
		return nil, err
	}

	tripRoutes, err := readTrips(tables[tripsTable])
	if err != nil {
		return nil, err
	}

	stops, err := readStops(tables[stopsTable])
	if err != nil {
		return nil, err
	}

	stopRoutes, err := readStopTimes(tables[stopTimesTable], stops, tripRoutes, routes)
	if err != nil {
		return nil, err
	}

	return newIndex(snapshot, stops, routes, stopRoutes), nil
}

func openArchive(snapshot *Snapshot) (*zip.Reader, func(), error) {
	if snapshot.Data != nil {
		r, err := zip.NewReader(bytes.NewReader(snapshot.Data), int64(len(snapshot.Data)))
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	}

	rc, err := zip.OpenReader(snapshot.ArchivePath)
	if err != nil {
		return nil, nil, err
	}
	return &rc.Reader, func() { _ = rc.Close() }, nil
}

// locateTables finds the required tables by base name, case-insensitively. Feeds that
// wrap everything in one folder are common; a top-level entry wins over a nested one.
func locateTables(files []*zip.File) map[string]*zip.File {
	wanted := make(map[string]bool, len(requiredTables))
	for _, name := range requiredTables {
		wanted[name] = true
	}

	tables := make(map[string]*zip.File, len(requiredTables))
	for _, f := range files {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		base := strings.ToLower(path.Base(f.Name))
		if !wanted[base] {
			continue
		}
		if _, found := tables[base]; found && strings.Contains(f.Name, "/") {
			continue
		}
		tables[base] = f
	}
	return tables
}

// scanTable calls fn for each data row of a table, after the header row.
func scanTable(f *zip.File, fn func(h header, row []string)) error {
	rc, err := f.Open()
	if err != nil {
		return &MalformedArchiveError{Err: fmt.Errorf("opening %s: %w", f.Name, err)}
	}
	defer func() { _ = rc.Close() }()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var h header
	for scanner.Scan() {
		line := scanner.Text()
		if h == nil {
			h = newHeader(ParseRecord(line))
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(h, ParseRecord(line))
	}

	if err := scanner.Err(); err != nil {
		return &MalformedArchiveError{Err: fmt.Errorf("reading %s: %w", f.Name, err)}
	}
	return nil
}

func readRoutes(f *zip.File) (map[string]Route, error) {
	routes := make(map[string]Route)
	err := scanTable(f, func(h header, row []string) {
		id := h.get(row, "route_id")
		if id == "" {
			return
		}
		if _, dup := routes[id]; dup {
			return
		}

		routeType, err := strconv.Atoi(h.get(row, "route_type"))
		if err != nil {
			routeType = -1
		}

		routes[id] = Route{
			ID:        id,
			ShortName: h.get(row, "route_short_name"),
			LongName:  h.get(row, "route_long_name"),
			Kind:      routeKindFromType(routeType),
		}
	})
	return routes, err
}

func readTrips(f *zip.File) (map[string]string, error) {
	tripRoutes := make(map[string]string)
	err := scanTable(f, func(h header, row []string) {
		tripID := h.get(row, "trip_id")
		routeID := h.get(row, "route_id")
		if tripID == "" || routeID == "" {
			return
		}
		tripRoutes[tripID] = routeID
	})
	return tripRoutes, err
}

func readStops(f *zip.File) ([]Stop, error) {
	var stops []Stop
	seen := make(map[string]bool)
	err := scanTable(f, func(h header, row []string) {
		id := h.get(row, "stop_id")
		name := h.get(row, "stop_name")
		if id == "" || name == "" || seen[id] {
			return
		}

		lat, latOK := parseCoordinate(h.get(row, "stop_lat"))
		lng, lngOK := parseCoordinate(h.get(row, "stop_lon"))
		if !latOK || !lngOK {
			return
		}

		locationKind, err := strconv.Atoi(h.get(row, "location_type"))
		if err != nil {
			locationKind = 0
		}

		seen[id] = true
		stops = append(stops, Stop{
			ID:           id,
			Name:         name,
			Lat:          lat,
			Lng:          lng,
			LocationKind: locationKind,
		})
	})
	return stops, err
}

// readStopTimes streams stop_times.txt, joining each row to its trip's route and
// collecting up to MaxRoutesPerStop distinct routes per stop in first-seen order.
func readStopTimes(f *zip.File, stops []Stop, tripRoutes map[string]string, routes map[string]Route) (map[string][]string, error) {
	known := make(map[string]bool, len(stops))
	for _, stop := range stops {
		known[stop.ID] = true
	}

	stopRoutes := make(map[string][]string)
	err := scanTable(f, func(h header, row []string) {
		tripID := h.get(row, "trip_id")
		stopID := h.get(row, "stop_id")
		if tripID == "" || stopID == "" || !known[stopID] {
			return
		}

		routeID, ok := tripRoutes[tripID]
		if !ok {
			return
		}
		if _, ok := routes[routeID]; !ok {
			return
		}

		set := stopRoutes[stopID]
		if len(set) >= MaxRoutesPerStop {
			return
		}
		for _, existing := range set {
			if existing == routeID {
				return
			}
		}
		stopRoutes[stopID] = append(set, routeID)
	})
	return stopRoutes, err
}

func parseCoordinate(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
