package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// PickSupported returns preferred if it appears in supported, otherwise the first supported value.
// ok is false only when supported is empty.
//
// Parameters:
//   - supported: the values a device or surface reports as available
//   - preferred: the value to use when available
//
// Returns:
//   - T: the chosen value
//   - bool: false if there was nothing to choose from
func PickSupported[T comparable](supported []T, preferred T) (T, bool) {
	if len(supported) == 0 {
		var zero T
		return zero, false
	}
	for _, v := range supported {
		if v == preferred {
			return v, true
		}
	}
	return supported[0], true
}
