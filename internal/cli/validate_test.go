package cli

import (
	"os"
	"testing"
)

func TestValidatePrimersRejectsEmpty(t *testing.T) {
	if err := ValidatePrimers("", "TTTT"); err == nil {
		t.Error("expected an error for an empty forward primer")
	}
	if err := ValidatePrimers("ACGT", ""); err == nil {
		t.Error("expected an error for an empty reverse primer")
	}
}

func TestValidatePrimersRejectsOverlong(t *testing.T) {
	long := make([]byte, 33)
	for i := range long {
		long[i] = 'A'
	}
	if err := ValidatePrimers(string(long), "TTTT"); err == nil {
		t.Error("expected an error for a forward primer longer than 32 bases")
	}
}

func TestValidatePrimersAcceptsValidPair(t *testing.T) {
	if err := ValidatePrimers("ACGT", "TTTT"); err != nil {
		t.Errorf("expected a valid primer pair to pass, got %v", err)
	}
}

func TestValidateFilesRejectsEmptyList(t *testing.T) {
	if err := ValidateFiles(nil); err == nil {
		t.Error("expected an error for an empty file list")
	}
}

func TestValidateFilesRejectsMissingFile(t *testing.T) {
	if err := ValidateFiles([]string{"/no/such/file/kelpie-test"}); err == nil {
		t.Error("expected an error for a nonexistent file")
	}
}

func TestValidateFilesAcceptsExistingFile(t *testing.T) {
	f, err := os.CreateTemp("", "kelpie-validate-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.Close()

	if err := ValidateFiles([]string{f.Name()}); err != nil {
		t.Errorf("expected an existing file to pass validation, got %v", err)
	}
}

func TestValidateBoundsRejectsOutOfRangeK(t *testing.T) {
	if err := ValidateBounds(0, 0, 0); err == nil {
		t.Error("expected k=0 to be rejected")
	}
	if err := ValidateBounds(33, 0, 0); err == nil {
		t.Error("expected k=33 to be rejected")
	}
}

func TestValidateBoundsRejectsInvertedMinMax(t *testing.T) {
	if err := ValidateBounds(20, 500, 100); err == nil {
		t.Error("expected minLen > maxLen to be rejected")
	}
}

func TestBuildReturnsPopulatedConfigOnSuccess(t *testing.T) {
	f, err := os.CreateTemp("", "kelpie-build-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.Close()

	paired := true
	cfg, err := Build("ACGT", "TTTT", []string{f.Name()}, 20, 4, &paired, 10, 50, 500, false, "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if cfg.ForwardPrimer != "ACGT" || cfg.K != 20 || cfg.Threads != 4 {
		t.Errorf("Build() produced an unexpected Config: %+v", cfg)
	}
	if cfg.Paired == nil || !*cfg.Paired {
		t.Error("expected Paired to carry through to the Config")
	}
}

func TestBuildPropagatesValidationError(t *testing.T) {
	_, err := Build("", "TTTT", []string{"irrelevant"}, 20, 1, nil, 0, 0, 0, false, "")
	if err == nil {
		t.Error("expected Build to surface a primer validation error")
	}
}
