package compress

// ZstdCompressor provides Zstandard compression for archived chain
// traces, where ratio matters more than speed.
//
// The default build uses the pure-Go klauspost implementation; the
// "gozstd" build tag switches to the cgo bindings for the reference
// library.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
