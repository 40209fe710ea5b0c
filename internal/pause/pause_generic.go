//go:build !(amd64 || 386 || arm64 || riscv64 || ppc64 || ppc64le || mips || mipsle || mips64 || mips64le || loong64) || noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "generic"

// Pause is the fallback spin-wait hint.
//
//go:noinline
func Pause() {}
