package version

import "time"

// Set via -ldflags at release build time.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// String renders the version for display. Plain `go build` binaries
// carry no release metadata, so it falls back to the build time and
// finally to the current time.
func String() string {
	v := Version
	if v == "" {
		v = BuildTime
	}
	if v == "" {
		v = time.Now().UTC().Format("20060102T150405Z")
	}
	if Commit == "" {
		return v
	}
	c := Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return v + " (" + c + ")"
}
