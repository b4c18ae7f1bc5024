package gtfs

import "fmt"

// DownloadError reports a failed or non-successful fetch of the feed archive.
// StatusCode is 0 when the request never produced a response.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("downloading GTFS archive from %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("downloading GTFS archive from %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// MissingTableError reports that a required table is absent from the archive.
type MissingTableError struct {
	Table string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("GTFS archive is missing required table %s", e.Table)
}

// MalformedArchiveError reports that the archive could not be opened as a zip file.
type MalformedArchiveError struct {
	Err error
}

func (e *MalformedArchiveError) Error() string {
	return fmt.Sprintf("malformed GTFS archive: %v", e.Err)
}

func (e *MalformedArchiveError) Unwrap() error {
	return e.Err
}
