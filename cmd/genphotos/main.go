// Command genphotos writes small JPEG fixtures with random EXIF dates for
// trying phototransfer by hand.
package main

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"

	"github.com/tonimelisma/phototransfer/internal/exiffixture"
)

var args struct {
	Dir   string `arg:"positional,required" help:"Directory to write the photos into"`
	Count int    `arg:"-n,--count" default:"30" help:"Number of photos to generate"`
	Seed  int64  `arg:"--seed" help:"Random seed (0 picks one from the clock)"`
}

var (
	subfolders = []string{"", "Vacation", "Family", "Events", "Vacation/Summer"}
	palette    = []color.RGBA{
		{R: 220, G: 50, B: 47, A: 255},
		{R: 38, G: 139, B: 210, A: 255},
		{R: 133, G: 153, B: 0, A: 255},
		{R: 181, G: 137, B: 0, A: 255},
		{R: 108, G: 113, B: 196, A: 255},
		{R: 203, G: 75, B: 22, A: 255},
	}

	rangeStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	rangeEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)
)

// randomDate returns a time between 2020-01-01 and 2024-12-31 with a
// random time of day.
func randomDate(r *rand.Rand) time.Time {
	days := int(rangeEnd.Sub(rangeStart).Hours() / 24)
	d := rangeStart.AddDate(0, 0, r.Intn(days))
	return d.Add(time.Duration(r.Intn(24*60*60)) * time.Second)
}

func solidImage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func generate(dir string, count int, r *rand.Rand, log zerolog.Logger) error {
	for i := 1; i <= count; i++ {
		taken := randomDate(r)
		folder := filepath.Join(dir, subfolders[r.Intn(len(subfolders))])
		if err := os.MkdirAll(folder, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", folder, err)
		}

		data, err := exiffixture.JPEG(solidImage(palette[r.Intn(len(palette))]), 85, exiffixture.DateTags(taken))
		if err != nil {
			return err
		}

		path := filepath.Join(folder, fmt.Sprintf("IMG_%04d.jpg", i))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info().Str("path", path).Str("taken", taken.Format("January 2006")).Msg("created")
	}
	return nil
}

func main() {
	arg.MustParse(&args)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	seed := args.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err := generate(args.Dir, args.Count, rand.New(rand.NewSource(seed)), log); err != nil {
		log.Fatal().Err(err).Msg("generating photos")
	}
	log.Info().Int("count", args.Count).Int64("seed", seed).Msg("done")
}
