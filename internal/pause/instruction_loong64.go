//go:build loong64 && !noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "ibar 0 x32"
