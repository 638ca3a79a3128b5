//go:build amd64 && !purego

package blake2b

import "golang.org/x/sys/cpu"

var hasVectorUnit = cpu.X86.HasSSE41
