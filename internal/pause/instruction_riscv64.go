//go:build riscv64 && !noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "pause (zihintpause)"
