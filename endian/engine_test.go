package endian

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	// Inspect the host byte order directly and compare against the
	// package's answer.
	var v uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&v))[0]

	switch first {
	case 0x02:
		assert.Equal(t, binary.LittleEndian, CheckEndianness())
	case 0x01:
		assert.Equal(t, binary.BigEndian, CheckEndianness())
	default:
		t.Fatalf("unexpected leading byte %#x", first)
	}

	// Repeated calls must agree; the answer is a property of the host.
	got := CheckEndianness()
	for i := 0; i < 32; i++ {
		require.Equal(t, got, CheckEndianness())
	}
}

func TestNativePredicates(t *testing.T) {
	// Exactly one of the two predicates holds, and both must agree with
	// CheckEndianness.
	little := IsNativeLittleEndian()
	big := IsNativeBigEndian()

	assert.NotEqual(t, little, big)
	assert.Equal(t, CheckEndianness() == binary.LittleEndian, little)
	assert.Equal(t, CheckEndianness() == binary.BigEndian, big)
}

func TestCompareNativeEndian(t *testing.T) {
	assert.Equal(t, IsNativeLittleEndian(), CompareNativeEndian(GetLittleEndianEngine()))
	assert.Equal(t, IsNativeBigEndian(), CompareNativeEndian(GetBigEndianEngine()))
}

func TestLittleEndianEngineLayout(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Implements(t, (*EndianEngine)(nil), engine)

	// Trace headers are written least significant byte first.
	buf := engine.AppendUint32(nil, 0x45545243)
	assert.Equal(t, []byte{0x43, 0x52, 0x54, 0x45}, buf)
	assert.Equal(t, uint32(0x45545243), engine.Uint32(buf))

	buf = engine.AppendUint16(nil, 0x0102)
	assert.Equal(t, []byte{0x02, 0x01}, buf)
}

func TestBigEndianEngineLayout(t *testing.T) {
	engine := GetBigEndianEngine()
	require.Implements(t, (*EndianEngine)(nil), engine)

	buf := engine.AppendUint16(nil, 0x0102)
	assert.Equal(t, []byte{0x01, 0x02}, buf)
	assert.Equal(t, uint16(0x0102), engine.Uint16(buf))
}

func TestEngineRoundTrip(t *testing.T) {
	// Trace files append name lengths as uint16, counts as uint32 and
	// sample bits as uint64, then read each back with the matching
	// fixed-width decoder.
	engines := map[string]EndianEngine{
		"Little": GetLittleEndianEngine(),
		"Big":    GetBigEndianEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			var buf []byte
			buf = engine.AppendUint16(buf, 0xBEEF)
			buf = engine.AppendUint32(buf, 0xDEADBEEF)
			buf = engine.AppendUint64(buf, math.Float64bits(2.5))
			require.Len(t, buf, 14)

			assert.Equal(t, uint16(0xBEEF), engine.Uint16(buf[0:2]))
			assert.Equal(t, uint32(0xDEADBEEF), engine.Uint32(buf[2:6]))
			assert.Equal(t, 2.5, math.Float64frombits(engine.Uint64(buf[6:14])))
		})
	}
}

func TestEnginesDisagreeOnLayout(t *testing.T) {
	little := GetLittleEndianEngine().AppendUint64(nil, 0x0102030405060708)
	big := GetBigEndianEngine().AppendUint64(nil, 0x0102030405060708)

	assert.NotEqual(t, little, big)
	assert.Equal(t,
		GetLittleEndianEngine().Uint64(little),
		GetBigEndianEngine().Uint64(big))
}
