//go:build (amd64 || 386) && !noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "pause"
