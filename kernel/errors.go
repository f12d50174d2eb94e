package kernel

import "github.com/pkg/errors"

// The kernel error taxonomy. API misuse that cannot be recovered from, such
// as scheduling into the past, panics instead.
var (
	// ErrInvalidContext reports a call that requires a live scheduler,
	// made before the scheduler was created or after it was torn down.
	ErrInvalidContext = errors.New("no active scheduler context")

	// ErrInvalidHandle reports the use of a handle whose process has been
	// killed or reclaimed.
	ErrInvalidHandle = errors.New("process handle is no longer valid")

	// ErrDuplicateName reports a spawn with a name that already exists in
	// the same hierarchical scope.
	ErrDuplicateName = errors.New("duplicate process name")

	// ErrInfiniteLoop reports that the delta-cycle safety ceiling was
	// exceeded without a time advance.
	ErrInfiniteLoop = errors.New("delta cycle limit exceeded")

	// ErrSensitivityConflict reports a wait with no condition when the
	// process has no static sensitivity to fall back on.
	ErrSensitivityConflict = errors.New("wait without condition and " +
		"without static sensitivity")
)
