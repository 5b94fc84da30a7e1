// Package trace persists MCMC samples collections as compact binary
// blobs.
//
// A trace blob carries a fixed header (magic, version, compression
// type, dimensions), the parameter names with their xxHash64 identifiers,
// a compressed payload of all chain samples, and a payload checksum.
// Encode and Decode round-trip a SamplesCollection exactly, which enables
// freeze/resume workflows and offline diagnostics.
package trace
