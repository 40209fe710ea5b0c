//go:build (ppc64 || ppc64le) && !noasm

package pause

// Instruction names the hint executed by Pause.
const Instruction = "or 27,27,27"
