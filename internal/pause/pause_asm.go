//go:build (amd64 || 386 || arm64 || riscv64 || ppc64 || ppc64le || mips || mipsle || mips64 || mips64le || loong64) && !noasm

package pause

// Pause executes the architecture's spin-wait hint once.
func Pause()
