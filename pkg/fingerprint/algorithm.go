package fingerprint

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"slices"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when Config.Algorithm is empty.
const DefaultAlgorithm = "sha512"

var algorithms = map[string]func() hash.Hash{
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512/256": sha512.New512_256,
	"sha3-256":   sha3.New256,
	"sha3-512":   sha3.New512,
	"blake2b-512": func() hash.Hash {
		// blake2b only fails on keys longer than 64 bytes
		h, _ := blake2b.New512(nil)
		return h
	},
}

// Algorithms returns the supported digest names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Supported reports whether name is a known digest.
func Supported(name string) bool {
	_, ok := algorithms[name]
	return ok
}

func lookup(name string) (func() hash.Hash, error) {
	if name == "" {
		name = DefaultAlgorithm
	}
	fn, ok := algorithms[name]
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	return fn, nil
}
