package gtfs

import (
	"fmt"
	"os"

	"github.com/jamespfennell/gtfs"
)

// FeedStats counts the entities of a feed as seen by a full, validating GTFS parse.
type FeedStats struct {
	Agencies int `json:"agencies"`
	Routes   int `json:"routes"`
	Stops    int `json:"stops"`
	Trips    int `json:"trips"`
	Services int `json:"services"`
	Shapes   int `json:"shapes"`
	Warnings int `json:"warnings"`
}

// FeedStatistics parses the whole snapshot with the reference GTFS parser. It is much
// slower than BuildIndex and stricter about optional tables, so it is only used for
// diagnostics.
func FeedStatistics(snapshot *Snapshot) (*FeedStats, error) {
	b := snapshot.Data
	if b == nil {
		var err error
		b, err = os.ReadFile(snapshot.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("error reading GTFS archive: %w", err)
		}
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	return &FeedStats{
		Agencies: len(staticData.Agencies),
		Routes:   len(staticData.Routes),
		Stops:    len(staticData.Stops),
		Trips:    len(staticData.Trips),
		Services: len(staticData.Services),
		Shapes:   len(staticData.Shapes),
		Warnings: len(staticData.Warnings),
	}, nil
}
