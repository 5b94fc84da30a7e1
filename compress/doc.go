// Package compress provides the compression codecs used when persisting
// MCMC chain traces.
//
// Chain payloads are long runs of little-endian float64 samples; they
// compress well with fast byte-oriented codecs. Zstd gives the best ratio
// for archived runs, S2 and LZ4 trade ratio for speed, and the no-op
// codec serves debugging and baseline measurements.
package compress
