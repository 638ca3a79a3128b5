package blake2b

import "math/bits"

// scratch is the per-compression working memory: the 16-word working vector
// v and the decoded message words m. It is owned by the state so that it can
// be zeroed together with the rest of the secrets.
type scratch struct {
	v [16]uint64
	m [16]uint64
}

func (w *scratch) wipe() {
	clear(w.v[:])
	clear(w.m[:])
}

// compressFunc folds one 128-byte block into h. block must hold at least
// BlockSize bytes. Both engines leave the final working vector in w.v.
type compressFunc func(h *[8]uint64, w *scratch, t0, t1, f0 uint64, block []byte)

// Engine selects the compression implementation used by a Digest.
type Engine uint8

const (
	// EngineAuto picks the vectorized engine when it is hardware backed and
	// VectorPathEnabled reports true, the scalar engine otherwise. The choice
	// is made per block.
	EngineAuto Engine = iota
	// EngineScalar always uses the word-by-word engine.
	EngineScalar
	// EngineVector always uses the two-lane engine.
	EngineVector
)

func (e Engine) String() string {
	switch e {
	case EngineAuto:
		return "auto"
	case EngineScalar:
		return "scalar"
	case EngineVector:
		return "vector"
	}
	return "unknown"
}

// compressorFor resolves e to an implementation. Called once per block.
func compressorFor(e Engine) compressFunc {
	switch e {
	case EngineScalar:
		return compressGeneric
	case EngineVector:
		return compressVector
	}
	if vectorAccelerated && VectorPathEnabled() {
		return compressVector
	}
	return compressGeneric
}

// loadBlock decodes the block into 16 little-endian message words.
func loadBlock(m *[16]uint64, block []byte) {
	_ = block[BlockSize-1]
	for i := range m {
		m[i] = le64(block[i*8:])
	}
}

// initVector builds v = h || IV[0..4] || t0^IV4, t1^IV5, f0^IV6, IV7.
func initVector(v *[16]uint64, h *[8]uint64, t0, t1, f0 uint64) {
	copy(v[0:8], h[:])
	copy(v[8:12], iv[0:4])
	v[12] = t0 ^ iv[4]
	v[13] = t1 ^ iv[5]
	v[14] = f0 ^ iv[6]
	v[15] = iv[7]
}

func compressGeneric(h *[8]uint64, w *scratch, t0, t1, f0 uint64, block []byte) {
	v, m := &w.v, &w.m
	initVector(v, h, t0, t1, f0)
	loadBlock(m, block)

	for r := 0; r < rounds; r++ {
		s := &sigma[r]
		// columns
		g(v, 0, 4, 8, 12, m[s[0]], m[s[1]])
		g(v, 1, 5, 9, 13, m[s[2]], m[s[3]])
		g(v, 2, 6, 10, 14, m[s[4]], m[s[5]])
		g(v, 3, 7, 11, 15, m[s[6]], m[s[7]])
		// diagonals
		g(v, 0, 5, 10, 15, m[s[8]], m[s[9]])
		g(v, 1, 6, 11, 12, m[s[10]], m[s[11]])
		g(v, 2, 7, 8, 13, m[s[12]], m[s[13]])
		g(v, 3, 4, 9, 14, m[s[14]], m[s[15]])
	}

	for i := range h {
		h[i] ^= v[i] ^ v[i+8]
	}
}

// g is the BLAKE2b mixing function applied to v[a], v[b], v[c], v[d].
func g(v *[16]uint64, a, b, c, d int, x, y uint64) {
	v[a] += v[b] + x
	v[d] = bits.RotateLeft64(v[d]^v[a], -32)
	v[c] += v[d]
	v[b] = bits.RotateLeft64(v[b]^v[c], -24)
	v[a] += v[b] + y
	v[d] = bits.RotateLeft64(v[d]^v[a], -16)
	v[c] += v[d]
	v[b] = bits.RotateLeft64(v[b]^v[c], -63)
}
