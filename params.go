package blake2b

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned by the constructors when the digest
// length, key length or salt length is out of range.
var ErrInvalidParameter = errors.New("blake2b: invalid parameter")

// params is the sequential-mode parameter block. Fanout and depth are fixed
// at 1; leaf length, node offset, node depth and inner length are zero.
type params struct {
	size   int    // digest length in bytes, 1..64
	keyLen int    // 0..64
	keyed  bool   // key block is prepended, even when keyLen is 0
	salt   []byte // nil or SaltSize bytes
}

const sequentialMode = 1<<16 | 1<<24 // fanout = 1, depth = 1

// chain derives the initial chain value from the IV and the parameter block.
func (p *params) chain(h *[8]uint64) {
	*h = iv
	h[0] ^= uint64(p.size) | uint64(p.keyLen)<<8 | sequentialMode
	if p.salt != nil {
		h[4] ^= le64(p.salt[0:8])
		h[5] ^= le64(p.salt[8:16])
	}
}

// sizeFromBits converts a digest length in bits to bytes.
func sizeFromBits(bits int) (int, error) {
	if bits < 8 || bits > Size*8 || bits%8 != 0 {
		return 0, fmt.Errorf("%w: digest length %d bits, need a multiple of 8 in [8, 512]", ErrInvalidParameter, bits)
	}
	return bits / 8, nil
}

func checkSize(size int) error {
	if size < 1 || size > Size {
		return fmt.Errorf("%w: digest length %d bytes, need [1, 64]", ErrInvalidParameter, size)
	}
	return nil
}

func checkKey(n int) error {
	if n > KeySize {
		return fmt.Errorf("%w: key of %d bytes, at most %d supported", ErrInvalidParameter, n, KeySize)
	}
	return nil
}

func checkSalt(salt []byte) error {
	if salt != nil && len(salt) != SaltSize {
		return fmt.Errorf("%w: salt of %d bytes, must be exactly %d", ErrInvalidParameter, len(salt), SaltSize)
	}
	return nil
}
