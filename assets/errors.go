package assets

import "github.com/rotisserie/eris"

var (
	// ErrNoLoader is recorded for a path whose extension has no registered
	// loader.
	ErrNoLoader = eris.New("assets: no loader for extension")

	// ErrNotFound is returned by a Source for a path it does not hold.
	ErrNotFound = eris.New("assets: not found")

	// ErrAssetType is logged when a handle is read as a type other than the
	// one its loader produced.
	ErrAssetType = eris.New("assets: unexpected asset type")
)
