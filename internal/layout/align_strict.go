//go:build ppc64 || ppc64le || mips64 || mips64le

package layout

// MaxAlign is the alignment every payload is guaranteed, with a 16-byte
// floor on strict-alignment targets.
const MaxAlign = max(16, naturalAlign)
