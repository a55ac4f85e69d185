// Package exiffixture writes the smallest EXIF payloads the date resolver
// understands: a little-endian TIFF with ASCII tags in IFD0 and the Exif
// sub-IFD, optionally wrapped in a JPEG APP1 segment.
package exiffixture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"sort"
	"time"
)

const (
	TagDateTime          uint16 = 0x0132
	TagDateTimeOriginal  uint16 = 0x9003
	TagDateTimeDigitized uint16 = 0x9004
	TagExifIFDPointer    uint16 = 0x8769

	typeASCII = 2
	typeLong  = 4

	DateLayout = "2006:01:02 15:04:05"
)

var exifIFDTags = map[uint16]bool{
	TagDateTimeOriginal:  true,
	TagDateTimeDigitized: true,
}

// DateTags returns the three date tags set to t.
func DateTags(t time.Time) map[uint16]string {
	s := t.Format(DateLayout)
	return map[uint16]string{
		TagDateTime:          s,
		TagDateTimeOriginal:  s,
		TagDateTimeDigitized: s,
	}
}

// TIFF builds a TIFF stream with tags as ASCII entries. As in camera
// output, DateTimeOriginal and DateTimeDigitized go into the Exif sub-IFD
// referenced from IFD0; every other tag stays in IFD0.
func TIFF(tags map[uint16]string) []byte {
	var ifd0, sub []entry
	for id, s := range tags {
		if exifIFDTags[id] {
			sub = append(sub, asciiEntry(id, s))
		} else {
			ifd0 = append(ifd0, asciiEntry(id, s))
		}
	}
	if len(sub) > 0 {
		ifd0 = append(ifd0, longEntry(TagExifIFDPointer, 0))
		ifd0[len(ifd0)-1] = longEntry(TagExifIFDPointer, uint32(8+ifdSize(ifd0)))
	}

	var out bytes.Buffer
	out.WriteString("II")
	binary.Write(&out, binary.LittleEndian, uint16(42))
	binary.Write(&out, binary.LittleEndian, uint32(8))
	encodeIFD(&out, ifd0)
	if len(sub) > 0 {
		encodeIFD(&out, sub)
	}
	return out.Bytes()
}

type entry struct {
	id    uint16
	typ   uint16
	count uint32
	value []byte
}

func asciiEntry(id uint16, s string) entry {
	v := append([]byte(s), 0)
	return entry{id: id, typ: typeASCII, count: uint32(len(v)), value: v}
}

func longEntry(id uint16, n uint32) entry {
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, n)
	return entry{id: id, typ: typeLong, count: 1, value: v}
}

// ifdSize is the encoded size of an IFD and its out-of-line values.
func ifdSize(entries []entry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.value) > 4 {
			n += len(e.value) + len(e.value)%2
		}
	}
	return n
}

// encodeIFD appends entries as an IFD at the end of w, followed by the
// values that do not fit inline.
func encodeIFD(w *bytes.Buffer, entries []entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	le := binary.LittleEndian
	dataOffset := uint32(w.Len() + 2 + 12*len(entries) + 4)
	var data bytes.Buffer

	binary.Write(w, le, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(w, le, e.id)
		binary.Write(w, le, e.typ)
		binary.Write(w, le, e.count)
		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			w.Write(inline)
			continue
		}
		binary.Write(w, le, dataOffset+uint32(data.Len()))
		data.Write(e.value)
		// Offsets must be word aligned.
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	binary.Write(w, le, uint32(0)) // no next IFD

	w.Write(data.Bytes())
}

// app1 returns a complete APP1 segment carrying tags.
func app1(tags map[uint16]string) ([]byte, error) {
	payload := append([]byte("Exif\x00\x00"), TIFF(tags)...)
	if len(payload)+2 > 0xFFFF {
		return nil, fmt.Errorf("exif payload too large: %d bytes", len(payload))
	}
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...), nil
}

// MinimalJPEG returns SOI, an APP1 segment and EOI. There is no image data,
// which is enough for metadata readers and keeps fixtures small.
func MinimalJPEG(tags map[uint16]string) []byte {
	seg, err := app1(tags)
	if err != nil {
		panic(err)
	}
	out := []byte{0xFF, 0xD8}
	out = append(out, seg...)
	return append(out, 0xFF, 0xD9)
}

// JPEG encodes img and injects an APP1 segment with tags right after SOI.
func JPEG(img image.Image, quality int, tags map[uint16]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	seg, err := app1(tags)
	if err != nil {
		return nil, err
	}

	encoded := buf.Bytes()
	out := make([]byte, 0, len(encoded)+len(seg))
	out = append(out, encoded[:2]...) // SOI
	out = append(out, seg...)
	out = append(out, encoded[2:]...)
	return out, nil
}
