package reads

import (
	"os"
	"testing"

	"github.com/kelpie-bio/kelpie"
)

func TestWriteFastaAnnotatesSizeAndWritesSequence(t *testing.T) {
	path := os.TempDir() + "/kelpie-writefasta-test.fasta"
	defer os.Remove(path)

	records := []kelpie.DereplicatedRecord{
		{Seq: "ACGTACGT", Size: 3, Headers: []string{"read1"}},
	}
	if err := WriteFasta(path, records); err != nil {
		t.Fatalf("WriteFasta() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := ">read1;size=3\nACGTACGT\n"
	if string(data) != want {
		t.Errorf("WriteFasta() wrote %q, want %q", data, want)
	}
}

func TestWriteFastaUsesClusterLabelForMultiHeaderRecords(t *testing.T) {
	path := os.TempDir() + "/kelpie-writefasta-cluster-test.fasta"
	defer os.Remove(path)

	records := []kelpie.DereplicatedRecord{
		{Seq: "ACGT", Size: 2, Headers: []string{"read1", "read2"}},
	}
	if err := WriteFasta(path, records); err != nil {
		t.Fatalf("WriteFasta() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := ">cluster1;size=2\nACGT\n"
	if string(data) != want {
		t.Errorf("WriteFasta() wrote %q, want %q", data, want)
	}
}

func TestWritePrimerReportWritesTabSeparatedCounts(t *testing.T) {
	path := os.TempDir() + "/kelpie-primerreport-test.txt"
	defer os.Remove(path)

	if err := WritePrimerReport(path, map[string]int{"ACGT": 5}); err != nil {
		t.Fatalf("WritePrimerReport() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ACGT\t5\n" {
		t.Errorf("WritePrimerReport() wrote %q, want %q", data, "ACGT\t5\n")
	}
}
