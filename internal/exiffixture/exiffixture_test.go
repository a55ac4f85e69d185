package exiffixture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

func TestMinimalJPEGDecodes(t *testing.T) {
	want := time.Date(2022, 5, 1, 10, 30, 0, 0, time.UTC)
	data := MinimalJPEG(DateTags(want))

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	for _, name := range []exif.FieldName{exif.DateTime, exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(name)
		if err != nil {
			t.Fatalf("tag %s missing: %v", name, err)
		}
		got, err := tag.StringVal()
		if err != nil {
			t.Fatalf("tag %s is not a string: %v", name, err)
		}
		if got != "2022:05:01 10:30:00" {
			t.Errorf("tag %s = %q, expected %q", name, got, "2022:05:01 10:30:00")
		}
	}
}

func TestCaptureDatesLiveInExifSubIFD(t *testing.T) {
	data := TIFF(DateTags(time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)))

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	ifd0 := map[uint16]bool{}
	for _, tag := range x.Tiff.Dirs[0].Tags {
		ifd0[tag.Id] = true
	}
	if !ifd0[TagDateTime] || !ifd0[TagExifIFDPointer] {
		t.Errorf("IFD0 should hold DateTime and the Exif pointer, has %v", ifd0)
	}
	if ifd0[TagDateTimeOriginal] || ifd0[TagDateTimeDigitized] {
		t.Errorf("capture dates must not be in IFD0, has %v", ifd0)
	}
	if _, err := x.Get(exif.DateTimeOriginal); err != nil {
		t.Errorf("DateTimeOriginal not reachable through the sub-IFD: %v", err)
	}
}

func TestShortValueIsStoredInline(t *testing.T) {
	data := TIFF(map[uint16]string{TagDateTime: "abc"})

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	tag, err := x.Get(exif.DateTime)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := tag.StringVal(); got != "abc" {
		t.Errorf("got %q, expected %q", got, "abc")
	}
}

func TestJPEGStillDecodesAsImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	data, err := JPEG(img, 80, DateTags(time.Date(2021, 11, 15, 8, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("JPEG failed: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 16 {
		t.Errorf("expected width 16, got %d", decoded.Bounds().Dx())
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exif decode failed: %v", err)
	}
	if _, err := x.Get(exif.DateTimeOriginal); err != nil {
		t.Errorf("DateTimeOriginal missing: %v", err)
	}
}
