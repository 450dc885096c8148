package utils

// Value dereferences an optional API field; nil reads as the zero value.
func Value[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
