package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
)

// ReadPrimerPair reads a forward/reverse primer pair from a small text
// file (one primer per non-blank line, forward first), for scripting
// kelpie over many amplicon targets without re-quoting primers on the
// command line. Uses the teacher's buffered line-reader idiom
// (unikmer/cmd/grep.go's pattern-file reading) rather than a bare
// bufio.Scanner.
func ReadPrimerPair(path string) (fwd, rvs string, err error) {
	reader, err := breader.NewDefaultBufferedReader(path)
	if err != nil {
		return "", "", errors.Wrapf(err, "kelpie: opening primer file %s", path)
	}

	var lines []string
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return "", "", errors.Wrapf(chunk.Err, "kelpie: reading primer file %s", path)
		}
		for _, data := range chunk.Data {
			line, ok := data.(string)
			if !ok || line == "" {
				continue
			}
			lines = append(lines, line)
			if len(lines) == 2 {
				return lines[0], lines[1], nil
			}
		}
	}

	return "", "", fmt.Errorf("kelpie: primer file %s must contain a forward and a reverse primer line, found %d", path, len(lines))
}
