// Package blake2b provides BLAKE2b (RFC 7693) hashing and Prefix-MAC with
// secret material kept in locked, zero-on-release memory.
//
// Two compression engines are available: a scalar one working word by word,
// and a vectorized one that keeps the working vector in 128-bit rows and runs
// two G lanes at once. They produce identical output. The vectorized engine is
// written in portable Go and is slower than the scalar one, so EngineAuto uses
// the scalar engine; WithEngine(EngineVector) selects the two-lane engine
// explicitly. VectorPathEnabled reports whether the CPU has a 128-bit vector
// unit (SSE4.1 on amd64, ASIMD on arm64), the host is little-endian, and
// SetVectorDisabled has not been called.
//
// Only sequential mode is implemented; tree hashing is not supported.
package blake2b

const (
	// BlockSize is the size of a BLAKE2b block in bytes.
	BlockSize = 128
	// Size is the maximum (and default) digest size in bytes.
	Size = 64
	// KeySize is the maximum key size in bytes.
	KeySize = 64
	// SaltSize is the exact salt size in bytes.
	SaltSize = 16

	rounds = 12
)

// iv is the BLAKE2b initialization vector, the same as the SHA-512 IV.
var iv = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

// sigma holds the message word permutation for each round.
// Rows 10 and 11 repeat rows 0 and 1.
var sigma = [rounds][16]byte{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
}

// Sum512 computes the unkeyed 64-byte BLAKE2b digest of data.
//
// The pending block lives in ordinary heap memory, not a locked securemem
// buffer, although it is zeroed before return. Hash secrets with New or
// NewMAC and Close instead.
func Sum512(data []byte) [Size]byte {
	var out [Size]byte
	var s state
	s.init(&params{size: Size}, EngineAuto)
	s.write(data)
	s.final(out[:])
	s.wipe()
	return out
}

// Sum computes the unkeyed BLAKE2b digest of data truncated to size bytes.
// It panics if size is not in [1, 64]. Like Sum512 it does not keep its
// working state in locked memory.
func Sum(data []byte, size int) []byte {
	if size < 1 || size > Size {
		panic("blake2b: invalid digest size")
	}
	var out [Size]byte
	var s state
	s.init(&params{size: size}, EngineAuto)
	s.write(data)
	s.final(out[:size])
	s.wipe()
	return append([]byte(nil), out[:size]...)
}

// le64 reads a little-endian uint64 from at least 8 bytes.
func le64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// putLE64 writes v little-endian into the first 8 bytes of b.
func putLE64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
