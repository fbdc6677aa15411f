package reads

import "github.com/kelpie-bio/kelpie"

// DetectQualityOffset guesses the Phred offset (33 or 64) from the
// observed quality byte range, the usual FASTQ heuristic: Illumina 1.3-1.7
// used offset 64 and never emitted bytes below it.
func DetectQualityOffset(all []*kelpie.Read) int {
	for _, r := range all {
		for _, q := range r.Qual {
			if q < 59 {
				return 33
			}
			if q >= 64 && q < 74 {
				return 64
			}
		}
	}
	return 33
}

// TrimTrailingLowQualityG removes a trailing run of 'G'/'g' basecalls
// carrying low quality, the two-channel Illumina no-signal artifact.
func TrimTrailingLowQualityG(r *kelpie.Read, offset int) {
	if len(r.Qual) != len(r.Seq) {
		return
	}
	const lowQ = 2
	end := len(r.Seq)
	for end > 0 {
		b := r.Seq[end-1]
		if b != 'G' && b != 'g' {
			break
		}
		if int(r.Qual[end-1])-offset > lowQ {
			break
		}
		end--
	}
	r.Seq = r.Seq[:end]
	r.Qual = r.Qual[:end]
}

// SlidingWindowQualTrim trims the 3' end once a window-average quality
// drops below target (spec §6 "-qualtrim", default 30), mirroring the
// common sliding-window trim of short-read QC tools.
func SlidingWindowQualTrim(r *kelpie.Read, offset, target, window int) {
	if len(r.Qual) != len(r.Seq) || window <= 0 {
		return
	}
	sum := 0
	cut := len(r.Seq)
	for i := 0; i < len(r.Qual); i++ {
		sum += int(r.Qual[i]) - offset
		if i >= window {
			sum -= int(r.Qual[i-window]) - offset
		}
		if i >= window-1 {
			avg := float64(sum) / float64(window)
			if avg < float64(target) {
				cut = i - window + 1
				break
			}
		}
	}
	if cut < len(r.Seq) {
		r.Seq = r.Seq[:cut]
		r.Qual = r.Qual[:cut]
	}
}

// QualityTrimAll applies both trims to every read, dropping reads that end
// up empty, and returns the surviving slice.
func QualityTrimAll(all []*kelpie.Read, target, window int) []*kelpie.Read {
	offset := DetectQualityOffset(all)
	out := all[:0]
	for _, r := range all {
		if len(r.Qual) == len(r.Seq) {
			TrimTrailingLowQualityG(r, offset)
			SlidingWindowQualTrim(r, offset, target, window)
		}
		if len(r.Seq) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}
