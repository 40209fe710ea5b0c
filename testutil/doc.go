// Package testutil provides helpers for allocator tests and workloads.
//
// # Deterministic Requests
//
//	rng := testutil.NewRNG(seed)
//	sizes := rng.Sizes(1000, 1<<16) // skewed toward small requests
//	align := rng.Alignment(4096)    // power of two
//
// # Content Verification
//
//	testutil.FillPattern(buf, seed)
//	if i := testutil.FindMismatch(buf, seed); i >= 0 {
//		// byte i was clobbered
//	}
package testutil
