package ingest

import "errors"

// Failure classes for one notification. Metadata-store faults and audio
// production faults are fatal for the item; art production degrades to
// "no art" and is never fatal. Wrong event kinds and extensions are
// skipped without being errors.
var (
	// ErrResolution marks a metadata-store failure other than "not found".
	// A sidecar that never appears is not an error; a store that cannot be
	// read is.
	ErrResolution = errors.New("metadata resolution failed")

	// ErrTranscode marks a failure to materialize the normalized audio at
	// its canonical destination (download, transcode, copy, or upload).
	ErrTranscode = errors.New("audio transcode failed")

	// ErrPersist marks a record-store write failure. It can only occur
	// after all destination assets are durably written, so rerunning the
	// same notification is safe and convergent.
	ErrPersist = errors.New("record persist failed")
)
