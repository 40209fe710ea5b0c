// Package pause provides the "yield to sibling hardware thread" hint used by
// busy-wait loops.
//
// # Platform Support
//
//   - amd64, 386: PAUSE
//   - arm64: YIELD
//   - riscv64: PAUSE from Zihintpause (executes as a no-op fence hint on
//     cores without the extension)
//   - ppc64, ppc64le: or 27,27,27 (drop to low thread priority)
//   - mips, mipsle, mips64, mips64le: PAUSE (a no-op before release 2)
//   - loong64: IBAR 0 repeated 32 times
//
// Every other architecture, and builds with the noasm tag, use an empty
// function that is never inlined. The call still keeps the compiler from
// collapsing the surrounding spin loop, which is all the fallback needs.
package pause
