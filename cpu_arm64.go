//go:build arm64 && !purego

package blake2b

import "golang.org/x/sys/cpu"

var hasVectorUnit = cpu.ARM64.HasASIMD
