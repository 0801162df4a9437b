package randomcut

import "github.com/pkg/errors"

// ErrInvalidArgument is the root cause of every caller-facing error in this
// package: bad configuration, out-of-range indexes, mismatched point
// dimensions, capacity exhaustion, and deletion of absent points. Call sites
// wrap it with context, so match it with errors.Is.
//
// Internal invariant violations (a Combine across visitor kinds, a corrupt
// arena handle) are programming errors and panic instead.
var ErrInvalidArgument = errors.New("randomcut: invalid argument")

// invalidArgumentf wraps ErrInvalidArgument with a formatted description of
// which argument was rejected and why.
func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
