// Copyright © 2018 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package kelpie implements a two-phase targeted-amplicon assembly engine:
// an iteratively grown region filter that selects reads falling between a
// forward and reverse PCR primer, and a context-guided, base-at-a-time
// extender that walks from the forward primer to the reverse primer's
// reverse complement.
package kelpie

// MaxK is the largest k-mer size a 64-bit packed word can hold.
const MaxK = 32

// bit2base maps a 2-bit code to its base letter.
var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// Encode packs an unambiguous DNA string (len 1..32) into a left-aligned
// 64-bit word, 2 bits/base (A=00,C=01,G=10,T=11). Degenerate bases cause
// ErrIllegalBase; callers that want "first base of the ambiguity class"
// behavior should resolve degeneracy before calling Encode (PrimerExpander
// does this explicitly; read scanning instead treats such k-mers as
// invalid, per spec §3).
func Encode(mer []byte) (code uint64, err error) {
	k := len(mer)
	if k == 0 || k > MaxK {
		return 0, ErrKOverflow
	}
	for i := 0; i < k; i++ {
		code <<= 2
		switch mer[i] {
		case 'A', 'a':
			code |= 0
		case 'C', 'c':
			code |= 1
		case 'G', 'g':
			code |= 2
		case 'T', 't':
			code |= 3
		default:
			return 0, ErrIllegalBase
		}
	}
	// left-align within 64 bits so k-mers of different length sort/compare
	// consistently when packed at the same offset.
	code <<= uint(64 - 2*k)
	return code, nil
}

// packRight packs into the low 2k bits (no left-alignment); used internally
// wherever k varies within one computation (context hashing, variable-length
// windows) and left-alignment would have to be undone immediately anyway.
func packRight(mer []byte) (code uint64, err error) {
	k := len(mer)
	if k == 0 || k > MaxK {
		return 0, ErrKOverflow
	}
	for i := 0; i < k; i++ {
		code <<= 2
		switch mer[i] {
		case 'A', 'a':
			code |= 0
		case 'C', 'c':
			code |= 1
		case 'G', 'g':
			code |= 2
		case 'T', 't':
			code |= 3
		default:
			return 0, ErrIllegalBase
		}
	}
	return code, nil
}

// Decode unpacks a left-aligned k-length code back to a base string.
func Decode(code uint64, k int) []byte {
	if k <= 0 || k > MaxK {
		panic(ErrKOverflow)
	}
	code >>= uint(64 - 2*k)
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = bit2base[code&3]
		code >>= 2
	}
	return out
}

// ReverseComplement returns the reverse complement of a left-aligned
// k-length code: complement every 2-bit field, then reverse field order.
// Implemented bitwise (not via string round-trip) per spec §9.
func ReverseComplement(code uint64, k int) uint64 {
	if k <= 0 || k > MaxK {
		panic(ErrKOverflow)
	}
	c := ^code // complement every base's 2-bit field
	c >>= uint(64 - 2*k)
	var rc uint64
	for i := 0; i < k; i++ {
		rc <<= 2
		rc |= c & 3
		c >>= 2
	}
	rc <<= uint(64 - 2*k)
	return rc
}

// Canonical returns min(code, ReverseComplement(code, k)).
func Canonical(code uint64, k int) uint64 {
	rc := ReverseComplement(code, k)
	if rc < code {
		return rc
	}
	return code
}

// KmerEntry is one (code, valid) slot produced by GenerateFromRead: invalid
// entries mark k-mers that span an ambiguous base (spec §3).
type KmerEntry struct {
	Code  uint64
	Valid bool
}

// GenerateFromRead tiles every length-k window of read and packs it,
// marking windows that contain an ambiguous base as invalid rather than
// failing the whole read. Mirrors the teacher's per-read tiling loop in
// unikmer/cmd/count.go, generalized from "both recorded" to "validity
// flagged" since Kelpie (unlike the teacher) must keep windows aligned
// with read offsets for scanning and extension.
func GenerateFromRead(read []byte, k int) []KmerEntry {
	if len(read) < k {
		return nil
	}
	entries := make([]KmerEntry, len(read)-k+1)
	for i := range entries {
		code, err := Encode(read[i : i+k])
		entries[i] = KmerEntry{Code: code, Valid: err == nil}
	}
	return entries
}

// Pack is an alias for Encode using the spec's §4.2 naming
// (pack(string, offset, k) -> (kmer, valid)).
func Pack(read []byte, offset, k int) (code uint64, valid bool) {
	if offset < 0 || offset+k > len(read) {
		return 0, false
	}
	code, err := Encode(read[offset : offset+k])
	return code, err == nil
}

// Expand decodes a packed k-mer back to a string (spec §4.2 naming).
func Expand(code uint64, k int) string {
	return string(Decode(code, k))
}
