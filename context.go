package kelpie

import "hash/fnv"

// ContextHasher turns a variable-length sequence window ("context") into a
// 64-bit fingerprint (spec §3/§4.3). The teacher's platform-dependent
// string hash (spec §9 open question) is replaced, as instructed, by
// FNV-1a over the UTF-8 bytes of the context's length-(L-1) prefix,
// using the standard library's hash/fnv — the spec mandates this exact
// substitution, so there is no ecosystem library decision to make here
// (see DESIGN.md).

// HashContext computes the context fingerprint for the window
// seq[offset:offset+L], using k-length sub-k-mers. Returns ok=false if the
// window runs off the end of seq or any constituent k-mer spans an
// ambiguous base.
func HashContext(seq []byte, offset, L, k int) (uint64, bool) {
	return hashContext(seq, offset, L, k, false, 0)
}

// HashContextVariant computes the same fingerprint as HashContext, but
// substitutes lastKmer (a packed, right-aligned k-mer code) for the
// window's trailing k-mer, without mutating seq. Used by the Extender to
// ask "what would this context's fingerprint be if the next base were X"
// without materializing the hypothetical sequence.
func HashContextVariant(seq []byte, offset, L, k int, lastKmer uint64) (uint64, bool) {
	return hashContext(seq, offset, L, k, true, lastKmer)
}

func hashContext(seq []byte, offset, L, k int, override bool, lastOverride uint64) (uint64, bool) {
	if k <= 0 || k > MaxK || L < k || offset < 0 || offset+L > len(seq) {
		return 0, false
	}
	window := seq[offset : offset+L]

	// Offsets of the first, last and every non-overlapping intermediate
	// k-mer of the window (spec §3).
	lastStart := L - k
	var mix uint64
	var lastCode uint64
	ok := true
	for p := 0; p <= lastStart; p += k {
		code, err := packRight(window[p : p+k])
		if err != nil {
			ok = false
		}
		mix ^= code
		lastCode = code
	}
	if lastStart%k != 0 {
		// the last window didn't land on a stride-k offset; fold it in too
		// so "first and last" is always honored even when L-k isn't a
		// multiple of k.
		code, err := packRight(window[lastStart : lastStart+k])
		if err != nil {
			ok = false
		}
		mix ^= code
		lastCode = code
	}
	if override {
		lastCode = lastOverride
	}
	if !ok {
		return 0, false
	}

	prefixLen := L - 1
	h := fnv.New32a()
	_, _ = h.Write(window[:prefixLen])
	prefixHash := uint64(h.Sum32())

	// The low 32 bits are the trailing k-mer (or its override, for
	// HashContextVariant's hypothetical-next-base queries); the high 32
	// bits are the prefix's FNV-1a hash folded together with mix's upper
	// bits, so the first/intermediate k-mers XORed into mix still leave a
	// mark on the fingerprint instead of being silently overwritten.
	result := (lastCode & 0xFFFFFFFF) | ((prefixHash ^ (mix >> 32)) << 32)
	return result, true
}
