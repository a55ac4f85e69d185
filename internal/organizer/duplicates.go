package organizer

import (
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

const hashChunkSize = 32 * 1024

// DuplicateClassifier decides whether two files hold the same bytes.
type DuplicateClassifier struct {
	fs afero.Fs
}

func NewDuplicateClassifier(fs afero.Fs) *DuplicateClassifier {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DuplicateClassifier{fs: fs}
}

// Identical compares sizes first and content digests only when they match.
// Any I/O error counts as "not identical" so the caller renames instead of
// skipping.
func (d *DuplicateClassifier) Identical(a, b string) bool {
	infoA, err := d.fs.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := d.fs.Stat(b)
	if err != nil {
		return false
	}
	if infoA.Size() != infoB.Size() {
		return false
	}

	sumA, err := d.checksum(a)
	if err != nil {
		return false
	}
	sumB, err := d.checksum(b)
	if err != nil {
		return false
	}
	return sumA == sumB
}

func (d *DuplicateClassifier) checksum(path string) (uint64, error) {
	file, err := d.fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	hash := xxhash.New()
	if _, err := io.CopyBuffer(hash, file, make([]byte, hashChunkSize)); err != nil {
		return 0, err
	}
	return hash.Sum64(), nil
}
