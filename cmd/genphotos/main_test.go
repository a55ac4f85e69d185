package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tonimelisma/phototransfer/internal/organizer"
)

func TestRandomDateInRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		d := randomDate(r)
		if d.Before(rangeStart) || d.After(rangeEnd.AddDate(0, 0, 1)) {
			t.Fatalf("date %v out of range", d)
		}
	}
}

func TestGenerateIsReproducibleAndReadable(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := generate(dirA, 5, rand.New(rand.NewSource(42)), zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	if err := generate(dirB, 5, rand.New(rand.NewSource(42)), zerolog.Nop()); err != nil {
		t.Fatal(err)
	}

	resolver := organizer.NewDateResolver(afero.NewOsFs(), zerolog.Nop())
	count := 0
	err := filepath.Walk(dirA, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		count++

		rel, _ := filepath.Rel(dirA, path)
		twin := filepath.Join(dirB, rel)
		a, _ := os.ReadFile(path)
		b, err := os.ReadFile(twin)
		if err != nil || string(a) != string(b) {
			t.Errorf("%s differs between runs with the same seed", rel)
		}

		taken := resolver.Resolve(path)
		if taken.Year() < 2020 || taken.Year() > 2024 {
			t.Errorf("%s: resolved %v, expected the embedded date", rel, taken)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Errorf("expected 5 photos, got %d", count)
	}
}
