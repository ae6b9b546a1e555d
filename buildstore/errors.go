package buildstore

import "errors"

// ErrNoBuild is returned by LatestBuild when a source has no recorded builds.
var ErrNoBuild = errors.New("buildstore: no build recorded for source")
