package partition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kelpie-bio/kelpie"
)

func TestWriteTempPartitionsWritesOnePerFileOfPair(t *testing.T) {
	dir := t.TempDir()
	partitions := [][]*kelpie.Read{
		{
			{Header: "r1", Seq: []byte("ACGTACGT"), FileOf: 0},
			{Header: "r1", Seq: []byte("TTTTGGGG"), FileOf: 1},
		},
	}
	paths, manifest, err := WriteTempPartitions(partitions, dir, "test")
	if err != nil {
		t.Fatalf("WriteTempPartitions() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 temp files (one per file-of-pair), got %d", len(paths))
	}
	if manifest.Longest != 8 {
		t.Errorf("manifest.Longest = %d, want 8", manifest.Longest)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
}

func TestWriteManifestAndCleanup(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.txt")
	m := &Manifest{Longest: 42, FileCounts: map[string]int{"a_0_0.tmp": 3}}
	if err := WriteManifest(manifestPath, m); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "longest\t42\na_0_0.tmp\t3\n" {
		t.Errorf("WriteManifest() wrote %q", data)
	}

	tmp := filepath.Join(dir, "leftover.tmp")
	if err := os.WriteFile(tmp, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	CleanupUnlessKept([]string{tmp}, false)
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Error("expected CleanupUnlessKept(false) to remove the temp file")
	}
}

func TestCleanupUnlessKeptSkipsWhenKept(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "leftover.tmp")
	if err := os.WriteFile(tmp, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	CleanupUnlessKept([]string{tmp}, true)
	if _, err := os.Stat(tmp); err != nil {
		t.Error("expected CleanupUnlessKept(true) to leave the temp file in place")
	}
}
