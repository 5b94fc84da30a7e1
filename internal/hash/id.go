package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. It identifies parameter
// names in trace headers without storing a lookup table.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum64 computes the xxHash64 of the given bytes, used as a payload
// checksum in trace files.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}
