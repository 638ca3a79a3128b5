package blake2b

import "math/bits"

// state is the incremental BLAKE2b state machine shared by Digest and the
// one-shot helpers. The pending block lives in buf, which the owner provides
// so that Digest can keep it in locked memory.
type state struct {
	h      [8]uint64 // chain value
	t0, t1 uint64    // 128-bit byte counter
	f0     uint64    // finalization flag, all ones on the last block
	work   scratch

	buf []byte // pending block, len(buf) == BlockSize
	pos int    // bytes pending in buf, 0 <= pos <= BlockSize

	p      *params
	engine Engine
}

// init binds p and derives the initial chain value. buf must already be set.
// Keyed states need a reset with the key afterwards.
func (s *state) init(p *params, e Engine) {
	if s.buf == nil {
		var blk [BlockSize]byte
		s.buf = blk[:]
	}
	s.p = p
	s.engine = e
	s.reset(nil)
}

// reset returns the state to fresh. For keyed parameters the key (or zeros,
// if key is shorter than the configured length) is loaded as a full pending block.
func (s *state) reset(key []byte) {
	s.t0, s.t1, s.f0 = 0, 0, 0
	s.work.wipe()
	clear(s.buf)
	s.pos = 0
	s.p.chain(&s.h)
	if s.p.keyed {
		copy(s.buf, key)
		s.pos = BlockSize
	}
}

// addCounter advances the byte counter by n with carry into t1.
func (s *state) addCounter(n uint64) {
	var carry uint64
	s.t0, carry = bits.Add64(s.t0, n, 0)
	s.t1 += carry
}

func (s *state) compress(block []byte) {
	compressorFor(s.engine)(&s.h, &s.work, s.t0, s.t1, s.f0, block)
}

// writeByte absorbs a single byte.
func (s *state) writeByte(b byte) {
	if s.pos == BlockSize {
		s.addCounter(BlockSize)
		s.compress(s.buf)
		clear(s.buf)
		s.pos = 0
	}
	s.buf[s.pos] = b
	s.pos++
}

// write absorbs p. The last block of p is always left pending, even when it
// is full, so that final can compress it with the finalization flag set.
func (s *state) write(p []byte) {
	if len(p) == 0 {
		return
	}

	if s.pos != 0 {
		left := BlockSize - s.pos
		if left >= len(p) {
			s.pos += copy(s.buf[s.pos:], p)
			return
		}
		copy(s.buf[s.pos:], p[:left])
		s.addCounter(BlockSize)
		s.compress(s.buf)
		clear(s.buf)
		s.pos = 0
		p = p[left:]
	}

	// Full blocks straight from the input, except the last one.
	for len(p) > BlockSize {
		s.addCounter(BlockSize)
		s.compress(p[:BlockSize])
		p = p[BlockSize:]
	}

	s.pos = copy(s.buf, p)
}

// final compresses the pending block as the last one and writes len(out)
// bytes of the chain value into out. The chain value, pending block and
// working vector are zeroed afterwards; the caller resets the state.
func (s *state) final(out []byte) {
	s.f0 = ^uint64(0)
	s.addCounter(uint64(s.pos))
	s.compress(s.buf)
	clear(s.buf)
	s.work.wipe()

	var tmp [8]byte
	for i := 0; i*8 < len(out); i++ {
		if len(out)-i*8 >= 8 {
			putLE64(out[i*8:], s.h[i])
			continue
		}
		putLE64(tmp[:], s.h[i])
		copy(out[i*8:], tmp[:])
	}
	clear(tmp[:])
	clear(s.h[:])
}

// sum finalizes a copy of the state into out, leaving s untouched.
func (s *state) sum(out []byte) {
	var blk [BlockSize]byte
	c := *s
	c.buf = blk[:]
	copy(c.buf, s.buf)
	c.final(out)
	c.wipe()
}

// wipe zeroes every secret-bearing field.
func (s *state) wipe() {
	clear(s.h[:])
	s.t0, s.t1, s.f0 = 0, 0, 0
	s.work.wipe()
	clear(s.buf)
	s.pos = 0
}
