package vector

import "errors"

var (
	// ErrInvalid reports a vector that fails its structural invariants.
	ErrInvalid = errors.New("invalid vector")
	// ErrDType reports an operand whose dtype or scalar kind is not accepted.
	ErrDType = errors.New("unsupported dtype")
	// ErrUnsupported reports an operation the engine does not provide for
	// the given combination (scalar-scalar kernels, pushing to str/cat, ...).
	ErrUnsupported = errors.New("unsupported operation")
	// ErrLengthMismatch reports vector-vector operands of different lengths.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrEmpty reports a reduction with no elements to reduce.
	ErrEmpty = errors.New("empty vector")
	// ErrCorrupt reports data that can only come from a bug upstream, such as
	// a categorical code outside its dictionary.
	ErrCorrupt = errors.New("corrupt vector data")
)
