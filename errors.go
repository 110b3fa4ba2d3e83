package prefab

import "github.com/rotisserie/eris"

var (
	// ErrIndexNotFound is returned when a node index has no entry in the
	// children map. It means the map was not derived from the prefab being
	// spawned.
	ErrIndexNotFound = eris.New("prefab: index not found in children map")

	// ErrUnresolved is returned when the resolution pass reported a failure
	// and spawning was aborted.
	ErrUnresolved = eris.New("prefab: not all payloads were resolved")

	// ErrInvalidParent is returned by Validate for a parent index that is out
	// of range or not smaller than its child.
	ErrInvalidParent = eris.New("prefab: invalid parent index")

	// ErrDecode wraps deserialization failures from a Format.
	ErrDecode = eris.New("prefab: decode failed")
)

// WrapDecode marks err as a decode failure. err stays in the chain, so both
// ErrDecode and the original error match with eris.Is.
func WrapDecode(err error) error {
	return eris.Wrap(err, ErrDecode.Error())
}
