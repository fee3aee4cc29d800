package ptr

func Of[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value, or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
