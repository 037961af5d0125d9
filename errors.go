package gtree

// TreeError is an error type for the gtree module.
type TreeError string

func (e TreeError) Error() string {
	return string(e)
}

// ErrKeyAlreadyPresent is reported by Insert when the key is already stored.
const ErrKeyAlreadyPresent = TreeError("key already present in tree")

// ErrKeyNotFound is reported by Delete when the key is not stored.
const ErrKeyNotFound = TreeError("key not found in tree")

// ErrJoinPrecondition is reported by Join when the operand key ranges are
// not strictly separated by the pivot key.
const ErrJoinPrecondition = TreeError("join precondition violated: key ranges not separated by pivot")

// ErrIncompatibleRanker is reported when trees built under different rank
// functions are combined.
const ErrIncompatibleRanker = TreeError("trees use incompatible rank functions")

// ErrInvalidConfig signals an invalid tree configuration.
const ErrInvalidConfig = TreeError("invalid configuration")

// ErrUnorderedKeys is reported by FromSortedKeys for input that is not in
// strictly ascending order.
const ErrUnorderedKeys = TreeError("keys not in strictly ascending order")

// ErrInvariantViolation is returned by Check when a structural invariant
// does not hold. This always indicates an implementation defect, never
// caller misuse.
const ErrInvariantViolation = TreeError("structural invariant violated")
