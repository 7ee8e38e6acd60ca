package corpus

import "math/rand"

// Random returns size pseudo-random bytes from a fixed seed.
// Random data does not compress.
func Random(size int, seed int64) []byte {
	data := make([]byte, size)
	rng := rand.New(rand.NewSource(seed))
	_, _ = rng.Read(data)

	return data
}

// Repeated returns size copies of b.
func Repeated(size int, b byte) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = b
	}

	return data
}

// Text returns size bytes of repeated English-like text.
func Text(size int) []byte {
	pattern := []byte("It was the best of times, it was the worst of times, it was the age of wisdom, " +
		"it was the age of foolishness, it was the epoch of belief, it was the epoch of incredulity.\n")

	data := make([]byte, size)
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}

	return data
}
