package utils

import (
	"fmt"
	"github.com/twmb/murmur3"
	"strconv"
)

func HashBytes(bytes ...[]byte) uint64 {
	hash := murmur3.New64()
	for _, b := range bytes {
		_, err := hash.Write(b)
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

// HashKey renders a HashBytes digest as a fixed-width hex string for use in
// storage keys.
func HashKey(bytes ...[]byte) string {
	s := strconv.FormatUint(HashBytes(bytes...), 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}

// RecoverWithError turns a panic in the deferring function into *err.
func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = fmt.Errorf("got panic: %v", rv)
	}
}
