//go:build arm64 && !noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "yield"
