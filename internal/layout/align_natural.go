//go:build !(ppc64 || ppc64le || mips64 || mips64le)

package layout

// MaxAlign is the alignment every payload is guaranteed. It never drops
// below 8, so 64-bit atomics stay usable on 32-bit targets.
const MaxAlign = max(8, naturalAlign)
