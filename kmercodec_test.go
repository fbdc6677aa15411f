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

package kelpie

import (
	"bytes"
	"math/rand"
	"testing"
)

var randomMers [][]byte

func init() {
	randomMers = make([][]byte, 1000)
	for i := range randomMers {
		n := rand.Intn(32) + 1
		mer := make([]byte, n)
		for j := range mer {
			mer[j] = bit2base[rand.Intn(4)]
		}
		randomMers[i] = mer
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, mer := range randomMers {
		code, err := Encode(mer)
		if err != nil {
			t.Errorf("Encode error: %s", mer)
			continue
		}
		if !bytes.Equal(mer, Decode(code, len(mer))) {
			t.Errorf("Decode error: %s != %s", mer, Decode(code, len(mer)))
		}
	}
}

func TestEncodeIllegalBase(t *testing.T) {
	if _, err := Encode([]byte("ACGN")); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase, got %v", err)
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	for _, mer := range randomMers {
		code, err := Encode(mer)
		if err != nil {
			continue
		}
		rc := ReverseComplement(code, len(mer))
		if ReverseComplement(rc, len(mer)) != code {
			t.Errorf("RC(RC(%s)) != %s", mer, mer)
		}
	}
}

func TestCanonicalIsMinOfSelfAndRC(t *testing.T) {
	for _, mer := range randomMers {
		code, err := Encode(mer)
		if err != nil {
			continue
		}
		rc := ReverseComplement(code, len(mer))
		want := code
		if rc < code {
			want = rc
		}
		if Canonical(code, len(mer)) != want {
			t.Errorf("Canonical(%s) did not pick the smaller of code/RC", mer)
		}
		if Canonical(code, len(mer)) != Canonical(rc, len(mer)) {
			t.Errorf("Canonical(%s) != Canonical(RC(%s))", mer, mer)
		}
	}
}

func TestGenerateFromReadMarksAmbiguousWindowsInvalid(t *testing.T) {
	entries := GenerateFromRead([]byte("ACGTNACGT"), 4)
	if len(entries) != 6 {
		t.Fatalf("expected 6 windows, got %d", len(entries))
	}
	for i, e := range entries {
		spansN := i <= 4 && i+4 > 4
		if spansN && e.Valid {
			t.Errorf("window %d spans the N but was marked valid", i)
		}
	}
}

func TestPackExpandRoundTrip(t *testing.T) {
	seq := []byte("ACGTACGTACGT")
	code, ok := Pack(seq, 2, 8)
	if !ok {
		t.Fatal("Pack failed on a clean window")
	}
	if got := Expand(code, 8); got != string(seq[2:10]) {
		t.Errorf("Expand(Pack(seq,2,8)) = %s, want %s", got, seq[2:10])
	}
}

func TestPackOutOfRange(t *testing.T) {
	if _, ok := Pack([]byte("ACGT"), 1, 8); ok {
		t.Error("Pack should fail when the window runs past the sequence")
	}
}
