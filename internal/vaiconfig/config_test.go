package vaiconfig

import (
	"path/filepath"
	"testing"
)

func TestWriteReadProfileRoundTrip(t *testing.T) {
	p := Profile{Quality: 70, Threshold: 40, MinRegion: 32, FPSNum: 25, FPSDen: 1, MaxConcurrency: 4}
	path := filepath.Join(t.TempDir(), "profile.yaml")

	if err := WriteProfile(p, path); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}
	got, err := ReadProfile(path)
	if err != nil {
		t.Fatalf("ReadProfile: %v", err)
	}
	if got != p {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestReadProfileMissingFileErrors(t *testing.T) {
	_, err := ReadProfile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected error for missing profile file")
	}
}

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	d := Default()
	if d.Quality != 80 || d.Threshold != 30 || d.MinRegion != 64 {
		t.Fatalf("Default() = %+v, want quality=80 threshold=30 min_region=64", d)
	}
}
