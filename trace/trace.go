package trace

import (
	"fmt"
	"math"

	"github.com/DavAug/erlotinib/compress"
	"github.com/DavAug/erlotinib/endian"
	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/internal/hash"
	"github.com/DavAug/erlotinib/sampler"
)

const (
	// magic marks a trace blob: "ETRC".
	magic   uint32 = 0x45545243
	version uint8  = 1
)

var engine = endian.GetLittleEndianEngine()

// Encode serializes the collection with the given compression type.
//
// Layout:
//
//	magic u32 | version u8 | compression u8 |
//	nChains u32 | nIterations u32 | nParameters u32 |
//	per parameter: name length u16, name bytes, name xxHash64 u64 |
//	compressed payload length u32, compressed payload |
//	payload xxHash64 checksum u64
//
// The payload holds, per chain: the iteration-major samples, the
// log-posterior values, and the acceptance flags.
func Encode(samples *sampler.SamplesCollection, compression compress.Type) ([]byte, error) {
	if samples == nil {
		return nil, fmt.Errorf("%w: samples collection is nil", errs.ErrConfiguration)
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}

	nChains := samples.NChains()
	nIterations := samples.NIterations()
	nParameters := samples.NParameters()

	buf := make([]byte, 0, 64)
	buf = engine.AppendUint32(buf, magic)
	buf = append(buf, version, byte(compression))
	buf = engine.AppendUint32(buf, uint32(nChains))
	buf = engine.AppendUint32(buf, uint32(nIterations))
	buf = engine.AppendUint32(buf, uint32(nParameters))

	for _, name := range samples.ParameterNames() {
		if len(name) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: parameter name too long", errs.ErrConfiguration)
		}
		buf = engine.AppendUint16(buf, uint16(len(name)))
		buf = append(buf, name...)
		buf = engine.AppendUint64(buf, hash.ID(name))
	}

	payload := make([]byte, 0, nChains*nIterations*(nParameters+1)*8+nChains*nIterations)
	for c := 0; c < nChains; c++ {
		chain := samples.Chain(c)
		for iter := 0; iter < nIterations; iter++ {
			for _, value := range chain.Parameters(iter) {
				payload = engine.AppendUint64(payload, math.Float64bits(value))
			}
		}
		for iter := 0; iter < nIterations; iter++ {
			payload = engine.AppendUint64(payload, math.Float64bits(chain.LogPDF(iter)))
		}
		for iter := 0; iter < nIterations; iter++ {
			flag := byte(0)
			if chain.Accepted(iter) {
				flag = 1
			}
			payload = append(payload, flag)
		}
	}

	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, err
	}

	buf = engine.AppendUint32(buf, uint32(len(compressed)))
	buf = append(buf, compressed...)
	buf = engine.AppendUint64(buf, hash.Sum64(compressed))

	return buf, nil
}

// Decode restores a collection from an encoded trace blob. Corruption is
// detected through the header fields and the payload checksum.
func Decode(blob []byte) (*sampler.SamplesCollection, error) {
	r := &reader{buf: blob}

	if got := r.uint32(); got != magic {
		return nil, fmt.Errorf("%w: bad magic %#x", errs.ErrDataFormat, got)
	}
	if got := r.uint8(); got != version {
		return nil, fmt.Errorf("%w: unsupported trace version %d", errs.ErrDataFormat, got)
	}
	compression := compress.Type(r.uint8())
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDataFormat, err)
	}

	nChains := int(r.uint32())
	nIterations := int(r.uint32())
	nParameters := int(r.uint32())
	if r.failed || nChains < 1 || nParameters < 1 || nIterations < 0 {
		return nil, fmt.Errorf("%w: corrupt trace header", errs.ErrDataFormat)
	}

	names := make([]string, nParameters)
	for i := range names {
		name := string(r.bytes(int(r.uint16())))
		if id := r.uint64(); !r.failed && id != hash.ID(name) {
			return nil, fmt.Errorf("%w: parameter name %q fails its checksum", errs.ErrDataFormat, name)
		}
		names[i] = name
	}

	compressed := r.bytes(int(r.uint32()))
	checksum := r.uint64()
	if r.failed {
		return nil, fmt.Errorf("%w: truncated trace blob", errs.ErrDataFormat)
	}
	if hash.Sum64(compressed) != checksum {
		return nil, fmt.Errorf("%w: payload checksum mismatch", errs.ErrDataFormat)
	}

	payload, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDataFormat, err)
	}

	want := nChains * (nIterations*(nParameters+1)*8 + nIterations)
	if len(payload) != want {
		return nil, fmt.Errorf(
			"%w: payload is %d bytes, want %d",
			errs.ErrDataFormat, len(payload), want)
	}

	pr := &reader{buf: payload}
	chains := make([]*sampler.Chain, nChains)
	for c := range chains {
		parameters := make([]float64, nIterations*nParameters)
		for i := range parameters {
			parameters[i] = math.Float64frombits(pr.uint64())
		}
		logPDF := make([]float64, nIterations)
		for i := range logPDF {
			logPDF[i] = math.Float64frombits(pr.uint64())
		}
		accepted := make([]bool, nIterations)
		for i := range accepted {
			accepted[i] = pr.uint8() != 0
		}

		chain, err := sampler.NewChain(nParameters, parameters, logPDF, accepted)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrDataFormat, err)
		}
		chains[c] = chain
	}

	return sampler.NewSamplesCollection(names, chains)
}

// reader is a cursor over a blob that latches failure instead of
// panicking on truncated input.
type reader struct {
	buf    []byte
	off    int
	failed bool
}

func (r *reader) bytes(n int) []byte {
	if r.failed || n < 0 || r.off+n > len(r.buf) {
		r.failed = true
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) uint8() uint8 {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) uint16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return engine.Uint16(b)
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return engine.Uint32(b)
}

func (r *reader) uint64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return engine.Uint64(b)
}
