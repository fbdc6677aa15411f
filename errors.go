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

import "errors"

// ErrIllegalBase means a base outside the IUPAC alphabet was found.
var ErrIllegalBase = errors.New("kelpie: illegal base")

// ErrKOverflow means K is outside (0,32].
var ErrKOverflow = errors.New("kelpie: K (1-32) overflow")

// ErrKMismatch means two KmerCodes being combined have different K.
var ErrKMismatch = errors.New("kelpie: K mismatch")

// ErrEmptySeq means the sequence is empty.
var ErrEmptySeq = errors.New("kelpie: empty sequence")

// ErrShortSeq means the sequence is shorter than required.
var ErrShortSeq = errors.New("kelpie: sequence shorter than k")

// ErrPrimerTooLong means a primer exceeds the 32-base packing limit.
var ErrPrimerTooLong = errors.New("kelpie: primer longer than 32 bases")

// ErrPrimerLengthMismatch means primer variants of the same role differ in length.
var ErrPrimerLengthMismatch = errors.New("kelpie: primer variants of one role must share a single length")

// ErrNoStartingReads means no FP/RP primer match was found in any input read.
var ErrNoStartingReads = errors.New("kelpie: no starting-primer reads found")
