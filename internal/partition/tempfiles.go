package partition

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/kelpie-bio/kelpie"
)

// Manifest is the `*_kept_metadata.txt` companion written alongside
// retained partition files (spec §6 "-kept"/"-tmp").
type Manifest struct {
	Longest     int
	FileCounts  map[string]int
}

// WriteTempPartitions persists each partition as a gzip-compressed FASTA
// temp file named "<prefix>_<partitionNo>_<fileOfPair>.tmp", one writer per
// file (single-writer/many-reader discipline, spec §9), returning the
// written paths and a manifest for -kept mode.
func WriteTempPartitions(partitions [][]*kelpie.Read, dir, prefix string) ([]string, *Manifest, error) {
	manifest := &Manifest{FileCounts: make(map[string]int)}
	var paths []string

	for pn, part := range partitions {
		byFile := map[int][]*kelpie.Read{}
		for _, r := range part {
			if r == nil {
				continue
			}
			byFile[r.FileOf] = append(byFile[r.FileOf], r)
			if len(r.Seq) > manifest.Longest {
				manifest.Longest = len(r.Seq)
			}
		}
		for fileOf, reads := range byFile {
			name := fmt.Sprintf("%s_%d_%d.tmp", prefix, pn, fileOf)
			path := filepath.Join(dir, name)
			if err := writeGzippedFasta(path, reads); err != nil {
				return nil, nil, err
			}
			paths = append(paths, path)
			manifest.FileCounts[name] = len(reads)
		}
	}
	return paths, manifest, nil
}

func writeGzippedFasta(path string, reads []*kelpie.Read) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "kelpie: creating %s", path)
	}
	defer f.Close()

	gw := pgzip.NewWriter(f)
	defer gw.Close()
	bw := bufio.NewWriterSize(gw, os.Getpagesize())
	defer bw.Flush()

	for _, r := range reads {
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", r.Header, r.Seq); err != nil {
			return errors.Wrapf(err, "kelpie: writing %s", path)
		}
	}
	return nil
}

// WriteManifest writes the "longest\t<N>" + per-file-count manifest line
// format named in spec §6.
func WriteManifest(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "kelpie: creating %s", path)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	if _, err := fmt.Fprintf(bw, "longest\t%d\n", m.Longest); err != nil {
		return err
	}
	for name, n := range m.FileCounts {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", name, n); err != nil {
			return err
		}
	}
	return nil
}

// CleanupUnlessKept removes the temp partition files unless keep is set
// (spec §6 "-kept"/"-tmp").
func CleanupUnlessKept(paths []string, keep bool) {
	if keep {
		return
	}
	for _, p := range paths {
		os.Remove(p)
	}
}
