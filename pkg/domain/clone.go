package domain

// cloneSlice copies in, keeping nil and empty distinct so empty collections
// still encode as [] rather than null.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
