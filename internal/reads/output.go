package reads

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/kelpie-bio/kelpie"
)

// WriteFasta writes dereplicated records as FASTA, annotating each header
// with `;size=<count>` (spec §6 output format), the way the teacher's own
// commands write through xopen.Wopen for transparent gzip-on-suffix output.
func WriteFasta(path string, records []kelpie.DereplicatedRecord) error {
	out, err := xopen.Wopen(path)
	if err != nil {
		return errors.Wrapf(err, "kelpie: opening %s", path)
	}
	defer out.Close()

	for i, rec := range records {
		header := rec.Headers[0]
		if len(rec.Headers) > 1 {
			header = fmt.Sprintf("cluster%d", i+1)
		}
		if _, err := fmt.Fprintf(out, ">%s;size=%d\n%s\n", header, rec.Size, rec.Seq); err != nil {
			return errors.Wrapf(err, "kelpie: writing %s", path)
		}
	}
	return nil
}

// WritePrimerReport writes the `*_primers.txt` debug trace of observed
// primer variants and their counts (spec §6 optional output).
func WritePrimerReport(path string, observed map[string]int) error {
	out, err := xopen.Wopen(path)
	if err != nil {
		return errors.Wrapf(err, "kelpie: opening %s", path)
	}
	defer out.Close()

	for primer, n := range observed {
		if _, err := fmt.Fprintf(out, "%s\t%d\n", primer, n); err != nil {
			return errors.Wrapf(err, "kelpie: writing %s", path)
		}
	}
	return nil
}
