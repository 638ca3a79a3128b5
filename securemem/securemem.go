// Package securemem provides fixed-size byte buffers for secret material.
//
// Where the platform allows it a Buffer lives in its own anonymous mapping,
// locked against paging (mlock, or VirtualLock on Windows). Contents are
// zeroed on Wipe and on Close, and the memory is released exactly once.
// Locking is best effort: RLIMIT_MEMLOCK may refuse it, in which case Locked
// reports false and the buffer is still zeroed on release.
package securemem

import (
	"runtime"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// Buffer is a pinned, zero-on-release byte container.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	r       region
	once    sync.Once
	err     error
	cleanup runtime.Cleanup
}

// region is the backing memory and how it was obtained.
type region struct {
	mem    []byte
	m      mmap.MMap // nil when mem is on the Go heap
	locked bool
}

// alloc maps size bytes of anonymous memory and tries to lock them. It falls
// back to the Go heap, which does not move objects, if mapping is refused.
func alloc(size int) region {
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return region{mem: make([]byte, size)}
	}
	return region{mem: m, m: m, locked: m.Lock() == nil}
}

func (r region) release() error {
	clear(r.mem)
	if r.m == nil {
		return nil
	}
	if r.locked {
		if err := r.m.Unlock(); err != nil {
			return err
		}
	}
	return r.m.Unmap()
}

// New allocates a zeroed Buffer of size bytes. A zero size is allowed.
func New(size int) *Buffer {
	if size < 0 {
		panic("securemem: negative size")
	}
	b := &Buffer{}
	if size == 0 {
		b.r.mem = []byte{}
		return b
	}
	b.r = alloc(size)
	b.cleanup = runtime.AddCleanup(b, func(r region) { _ = r.release() }, b.r)
	return b
}

// FromBytes copies src into a new Buffer and zeroes src.
func FromBytes(src []byte) *Buffer {
	b := New(len(src))
	copy(b.r.mem, src)
	clear(src)
	return b
}

// Bytes returns the buffer contents. The slice aliases the locked memory and
// must not be retained past Close. After Close it returns nil.
func (b *Buffer) Bytes() []byte {
	return b.r.mem
}

// Len returns the buffer size in bytes, 0 after Close.
func (b *Buffer) Len() int {
	return len(b.r.mem)
}

// Locked reports whether the memory is locked against paging.
func (b *Buffer) Locked() bool {
	return b.r.locked
}

// Wipe zeroes the contents in place.
func (b *Buffer) Wipe() {
	clear(b.r.mem)
}

// Close zeroes and releases the memory. Subsequent calls return the result
// of the first one.
func (b *Buffer) Close() error {
	b.once.Do(func() {
		b.cleanup.Stop()
		b.err = b.r.release()
		b.r = region{}
	})
	return b.err
}
