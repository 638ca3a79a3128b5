package blake2b

import (
	"sync/atomic"
	"unsafe"
)

// isLittleEndian is checked once; the vector engine's lane layout assumes it.
var isLittleEndian = *(*uint16)(unsafe.Pointer(&[2]byte{1, 0})) == 1

var vectorDisabled atomic.Bool

// SetVectorDisabled turns the vectorized path off (or back on) for every
// Digest using EngineAuto, and returns the previous setting. It is safe to
// call while other goroutines are hashing; the setting is read once per block.
func SetVectorDisabled(disabled bool) (previous bool) {
	return vectorDisabled.Swap(disabled)
}

// VectorPathEnabled reports whether the vectorized path is permitted: the CPU
// has a 128-bit vector unit, the host is little-endian, and the path has not
// been disabled with SetVectorDisabled. EngineAuto additionally requires a
// hardware-backed vector engine; the portable two-lane engine is only used
// when pinned with WithEngine(EngineVector).
func VectorPathEnabled() bool {
	return hasVectorUnit && isLittleEndian && !vectorDisabled.Load()
}
