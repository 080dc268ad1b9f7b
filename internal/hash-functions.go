package internal

// BytesHash returns a hash value for the given byte slice.
func BytesHash(b []byte) (hash uint64) {
	// DJBX33A
	hash = 5381
	for _, c := range b {
		hash = ((hash << 5) + hash) + uint64(c)
	}
	return
}
