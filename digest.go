package blake2b

import (
	"errors"
	"hash"

	"github.com/Giulio2002/pinned_blake2b/securemem"
)

var _ hash.Hash = (*Digest)(nil)

// Digest is an incremental BLAKE2b hash, optionally keyed (Prefix-MAC) and
// salted. The pending block, the stored salt and the working state are held
// in locked memory and zeroed on Reset, DoFinal and Close.
//
// A Digest is not safe for concurrent use. Call Close when done with it.
type Digest struct {
	st      state
	p       params
	pending *securemem.Buffer
	key     *securemem.Buffer // borrowed from the caller, never released here
	salt    *securemem.Buffer
}

// Option configures a Digest.
type Option func(*options)

type options struct {
	engine Engine
}

// WithEngine pins the compression engine. The default is EngineAuto.
func WithEngine(e Engine) Option {
	return func(o *options) { o.engine = e }
}

// New returns an unkeyed Digest producing bits/8 bytes. bits must be a
// multiple of 8 in [8, 512].
func New(bits int, opts ...Option) (*Digest, error) {
	size, err := sizeFromBits(bits)
	if err != nil {
		return nil, err
	}
	return newDigest(params{size: size}, nil, nil, opts), nil
}

// New512 returns an unkeyed Digest producing 64 bytes.
func New512(opts ...Option) *Digest {
	return newDigest(params{size: Size}, nil, nil, opts)
}

// NewMAC returns a Digest in Prefix-MAC mode: the key, zero padded to a full
// block, is hashed ahead of the message. key may be empty, which still
// prepends an all-zero block; a nil key gives an unkeyed (optionally salted)
// digest. salt is nil or exactly 16 bytes and is copied. size is the digest
// length in bytes, 1 to 64.
//
// The key buffer is borrowed: it is read again on every Reset, it is wiped by
// ClearKey, and it is never closed by the Digest.
func NewMAC(key *securemem.Buffer, salt []byte, size int, opts ...Option) (*Digest, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	p := params{size: size}
	if key != nil {
		if err := checkKey(key.Len()); err != nil {
			return nil, err
		}
		p.keyed = true
		p.keyLen = key.Len()
	}
	if err := checkSalt(salt); err != nil {
		return nil, err
	}
	return newDigest(p, key, salt, opts), nil
}

func newDigest(p params, key *securemem.Buffer, salt []byte, opts []Option) *Digest {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := &Digest{p: p, key: key}
	if salt != nil {
		d.salt = securemem.New(SaltSize)
		copy(d.salt.Bytes(), salt)
		d.p.salt = d.salt.Bytes()
	}
	d.pending = securemem.New(BlockSize)
	d.st.buf = d.pending.Bytes()
	d.st.init(&d.p, o.engine)
	d.st.reset(d.keyBytes())
	return d
}

func (d *Digest) keyBytes() []byte {
	if d.key == nil {
		return nil
	}
	return d.key.Bytes()
}

// Update absorbs a single byte.
func (d *Digest) Update(b byte) {
	d.st.writeByte(b)
}

// UpdateBlock absorbs p[off:off+n]. It is a no-op when p is empty or n is 0.
// p is only read.
func (d *Digest) UpdateBlock(p []byte, off, n int) {
	if len(p) == 0 || n == 0 {
		return
	}
	d.st.write(p[off : off+n])
}

// UpdateSecure absorbs buf[off:off+n]. The caller keeps ownership of buf.
func (d *Digest) UpdateSecure(buf *securemem.Buffer, off, n int) {
	if buf == nil {
		return
	}
	d.UpdateBlock(buf.Bytes(), off, n)
}

// Write absorbs p. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	d.st.write(p)
	return len(p), nil
}

// DoFinal writes the digest into out[off:off+Size()] and resets d, keeping
// the key and salt. It returns the number of bytes written and panics if out
// is too short.
func (d *Digest) DoFinal(out []byte, off int) int {
	if off < 0 || len(out)-off < d.p.size {
		panic("blake2b: output buffer too small")
	}
	d.st.final(out[off : off+d.p.size])
	d.Reset()
	return d.p.size
}

// Sum appends the digest of the data written so far to b without changing
// the state of d.
func (d *Digest) Sum(b []byte) []byte {
	var out [Size]byte
	d.st.sum(out[:d.p.size])
	b = append(b, out[:d.p.size]...)
	clear(out[:])
	return b
}

// Reset discards buffered input and restores the initial state. A configured
// key is loaded again as the first block; key and salt are kept.
func (d *Digest) Reset() {
	d.st.reset(d.keyBytes())
}

// ClearKey zeroes the key contents in place, along with the pending block.
// A later Reset prepends an all-zero key block of the original key length.
func (d *Digest) ClearKey() {
	if d.key == nil {
		return
	}
	d.key.Wipe()
	clear(d.st.buf)
}

// ClearSalt zeroes the salt. A later Reset derives the chain value as if no
// salt had been given.
func (d *Digest) ClearSalt() {
	if d.salt == nil {
		return
	}
	d.salt.Wipe()
}

// Size returns the digest length in bytes.
func (d *Digest) Size() int { return d.p.size }

// BlockSize returns the BLAKE2b block size, 128 bytes.
func (d *Digest) BlockSize() int { return BlockSize }

// Engine returns the configured compression engine.
func (d *Digest) Engine() Engine { return d.st.engine }

// Close wipes all state and the salt and releases the locked memory. The key
// buffer is not released. d must not be used afterwards.
func (d *Digest) Close() error {
	d.st.wipe()
	d.st.buf = nil
	d.p.salt = nil
	var errs []error
	if d.pending != nil {
		errs = append(errs, d.pending.Close())
	}
	if d.salt != nil {
		errs = append(errs, d.salt.Close())
	}
	return errors.Join(errs...)
}
