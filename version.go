package folio

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the library version, embedded from the VERSION file so the CLI
// and the module always agree.
var Version = strings.TrimSpace(rawVersion)
