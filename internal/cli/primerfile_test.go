package cli

import (
	"os"
	"testing"
)

func TestReadPrimerPairReadsForwardThenReverse(t *testing.T) {
	f, err := os.CreateTemp("", "kelpie-primerfile-*.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("ACGTACGT\nTTTTTTTT\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	fwd, rvs, err := ReadPrimerPair(f.Name())
	if err != nil {
		t.Fatalf("ReadPrimerPair() error = %v", err)
	}
	if fwd != "ACGTACGT" || rvs != "TTTTTTTT" {
		t.Errorf("ReadPrimerPair() = (%q, %q), want (ACGTACGT, TTTTTTTT)", fwd, rvs)
	}
}

func TestReadPrimerPairErrorsOnTooFewLines(t *testing.T) {
	f, err := os.CreateTemp("", "kelpie-primerfile-short-*.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("ACGTACGT\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, _, err := ReadPrimerPair(f.Name()); err == nil {
		t.Error("expected an error when the primer file has only one line")
	}
}

func TestReadPrimerPairErrorsOnMissingFile(t *testing.T) {
	if _, _, err := ReadPrimerPair("/no/such/primer/file.txt"); err == nil {
		t.Error("expected an error when the primer file does not exist")
	}
}
