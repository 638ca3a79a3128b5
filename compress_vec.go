package blake2b

// vectorAccelerated reports whether compressVector is backed by vector
// instructions. The lanes below are plain Go and run slower than
// compressGeneric, so EngineAuto does not choose them.
// TODO: SSE4.1 and ASIMD kernels under the amd64/arm64 build tags.
const vectorAccelerated = false

// u64x2 is a 128-bit vector of two 64-bit lanes, the register shape of
// SSE4.1 and ASIMD. Every operation acts on both lanes at once.
type u64x2 [2]uint64

func (a u64x2) add(b u64x2) u64x2 { return u64x2{a[0] + b[0], a[1] + b[1]} }
func (a u64x2) xor(b u64x2) u64x2 { return u64x2{a[0] ^ b[0], a[1] ^ b[1]} }

// The rotations mirror the usual lane tricks: 32 is a dword shuffle, 24 and
// 16 are byte shuffles, 63 is an add plus a shift.
func (a u64x2) rotr32() u64x2 { return u64x2{a[0]>>32 | a[0]<<32, a[1]>>32 | a[1]<<32} }
func (a u64x2) rotr24() u64x2 { return u64x2{a[0]>>24 | a[0]<<40, a[1]>>24 | a[1]<<40} }
func (a u64x2) rotr16() u64x2 { return u64x2{a[0]>>16 | a[0]<<48, a[1]>>16 | a[1]<<48} }
func (a u64x2) rotr63() u64x2 {
	return u64x2{(a[0] + a[0]) ^ a[0]>>63, (a[1] + a[1]) ^ a[1]>>63}
}

// alignr returns the upper lane of lo followed by the lower lane of hi.
func alignr(hi, lo u64x2) u64x2 { return u64x2{lo[1], hi[0]} }

// row is one row of the 4x4 working matrix split across two vectors.
type row struct{ lo, hi u64x2 }

// g1 is the first half of G on all four columns: rotations by 32 and 24.
func g1(a, b, c, d *row, x row) {
	a.lo = a.lo.add(b.lo).add(x.lo)
	a.hi = a.hi.add(b.hi).add(x.hi)
	d.lo = d.lo.xor(a.lo).rotr32()
	d.hi = d.hi.xor(a.hi).rotr32()
	c.lo = c.lo.add(d.lo)
	c.hi = c.hi.add(d.hi)
	b.lo = b.lo.xor(c.lo).rotr24()
	b.hi = b.hi.xor(c.hi).rotr24()
}

// g2 is the second half of G: rotations by 16 and 63.
func g2(a, b, c, d *row, y row) {
	a.lo = a.lo.add(b.lo).add(y.lo)
	a.hi = a.hi.add(b.hi).add(y.hi)
	d.lo = d.lo.xor(a.lo).rotr16()
	d.hi = d.hi.xor(a.hi).rotr16()
	c.lo = c.lo.add(d.lo)
	c.hi = c.hi.add(d.hi)
	b.lo = b.lo.xor(c.lo).rotr63()
	b.hi = b.hi.xor(c.hi).rotr63()
}

// diagonalize rotates rows b, c, d left by 1, 2 and 3 words so that the
// diagonals line up as columns.
func diagonalize(b, c, d *row) {
	b.lo, b.hi = alignr(b.hi, b.lo), alignr(b.lo, b.hi)
	c.lo, c.hi = c.hi, c.lo
	d.lo, d.hi = alignr(d.lo, d.hi), alignr(d.hi, d.lo)
}

func undiagonalize(b, c, d *row) {
	b.lo, b.hi = alignr(b.lo, b.hi), alignr(b.hi, b.lo)
	c.lo, c.hi = c.hi, c.lo
	d.lo, d.hi = alignr(d.hi, d.lo), alignr(d.lo, d.hi)
}

// gather loads the message words for four G lanes in lane order.
func gather(m *[16]uint64, s *[16]byte, i0, i1, i2, i3 int) row {
	return row{
		lo: u64x2{m[s[i0]], m[s[i1]]},
		hi: u64x2{m[s[i2]], m[s[i3]]},
	}
}

func compressVector(h *[8]uint64, w *scratch, t0, t1, f0 uint64, block []byte) {
	v, m := &w.v, &w.m
	initVector(v, h, t0, t1, f0)
	loadBlock(m, block)

	a := row{u64x2{v[0], v[1]}, u64x2{v[2], v[3]}}
	b := row{u64x2{v[4], v[5]}, u64x2{v[6], v[7]}}
	c := row{u64x2{v[8], v[9]}, u64x2{v[10], v[11]}}
	d := row{u64x2{v[12], v[13]}, u64x2{v[14], v[15]}}

	for r := 0; r < rounds; r++ {
		s := &sigma[r]

		g1(&a, &b, &c, &d, gather(m, s, 0, 2, 4, 6))
		g2(&a, &b, &c, &d, gather(m, s, 1, 3, 5, 7))
		diagonalize(&b, &c, &d)

		g1(&a, &b, &c, &d, gather(m, s, 8, 10, 12, 14))
		g2(&a, &b, &c, &d, gather(m, s, 9, 11, 13, 15))
		undiagonalize(&b, &c, &d)
	}

	v[0], v[1], v[2], v[3] = a.lo[0], a.lo[1], a.hi[0], a.hi[1]
	v[4], v[5], v[6], v[7] = b.lo[0], b.lo[1], b.hi[0], b.hi[1]
	v[8], v[9], v[10], v[11] = c.lo[0], c.lo[1], c.hi[0], c.hi[1]
	v[12], v[13], v[14], v[15] = d.lo[0], d.lo[1], d.hi[0], d.hi[1]

	for i := range h {
		h[i] ^= v[i] ^ v[i+8]
	}
}
