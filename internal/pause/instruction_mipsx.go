//go:build (mips || mipsle || mips64 || mips64le) && !noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "pause"
