package common

// WipeByteArray overwrites the buffer with zeros. Use it to clear passwords
// and PINs read from the terminal as soon as they are no longer needed.
// Safe to call with a nil slice.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
