package pause

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPause(t *testing.T) {
	// Must return promptly and never fault, whatever the architecture.
	for i := 0; i < 1000; i++ {
		Pause()
	}
}

func TestInstruction(t *testing.T) {
	assert.NotEmpty(t, Instruction)

	switch runtime.GOARCH {
	case "amd64", "386":
		assert.Contains(t, []string{"pause", "generic"}, Instruction)
	case "arm64":
		assert.Contains(t, []string{"yield", "generic"}, Instruction)
	case "ppc64", "ppc64le":
		assert.Contains(t, []string{"or 27,27,27", "generic"}, Instruction)
	case "mips", "mipsle", "mips64", "mips64le":
		assert.Contains(t, []string{"pause", "generic"}, Instruction)
	case "loong64":
		assert.Contains(t, []string{"ibar 0 x32", "generic"}, Instruction)
	}
}

func BenchmarkPause(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Pause()
	}
}
