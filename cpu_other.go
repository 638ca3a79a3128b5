//go:build (!amd64 && !arm64) || purego

package blake2b

const hasVectorUnit = false
