package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const maxSuffix = 999999

// enumerateFiles walks sourceDir and returns every photo below it, sorted.
// Unreadable subdirectories are logged and skipped. skipDir, when non-empty,
// is pruned from the walk.
func (e *Engine) enumerateFiles(sourceDir, skipDir string) ([]string, error) {
	var files []string

	err := afero.Walk(e.fs, sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == sourceDir {
				return fmt.Errorf("error accessing path %q: %w", path, err)
			}
			e.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			// Skip .Spotlight-V100 and .fseventsd folders
			if info.Name() == ".Spotlight-V100" || info.Name() == ".fseventsd" {
				return filepath.SkipDir
			}
			if skipDir != "" && path == skipDir {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !IsPhoto(info.Name()) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking the path %s: %w", sourceDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// exists reports whether path is present. Errors other than not-exist,
// such as a permission failure, are returned.
func (e *Engine) exists(path string) (bool, error) {
	_, err := e.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// resolveSymlinks follows symlinks in path when running on the OS
// filesystem. A missing tail, such as a destination not created yet, is
// joined back onto its nearest existing ancestor.
func (e *Engine) resolveSymlinks(path string) string {
	if _, ok := e.fs.(*afero.OsFs); !ok {
		return path
	}
	var missing []string
	for p := path; ; p = filepath.Dir(p) {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...)
		}
		if filepath.Dir(p) == p {
			return path
		}
		missing = append([]string{filepath.Base(p)}, missing...)
	}
}

// destinationFor picks the path sourcePath should land on inside destDir.
// duplicate is true when a byte-identical file already sits at the returned
// path. Otherwise the returned path is free: the original name when unused,
// or name_N.ext for the smallest free N.
func (e *Engine) destinationFor(sourcePath, destDir string, taken func(string) (string, bool, error)) (string, bool, error) {
	name := filepath.Base(sourcePath)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(destDir, name)
	for i := 1; ; i++ {
		existing, ok, err := taken(candidate)
		if err != nil {
			return "", false, fmt.Errorf("checking %s: %w", candidate, err)
		}
		if !ok {
			return candidate, false, nil
		}
		if e.duplicates.Identical(sourcePath, existing) {
			return candidate, true, nil
		}
		if i > maxSuffix {
			return "", false, fmt.Errorf("couldn't find a unique filename for %s after %d attempts", name, maxSuffix)
		}
		candidate = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}

// copyFile copies src to dst, keeping permission bits and modification
// time. dst must not exist; a partial dst is removed on failure.
func (e *Engine) copyFile(src, dst string) (int64, error) {
	sourceFile, err := e.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return 0, err
	}

	destFile, err := e.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(destFile, sourceFile)
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		e.fs.Remove(dst)
		return 0, err
	}

	if err := e.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		e.log.Debug().Err(err).Str("path", dst).Msg("could not preserve permissions")
	}
	if err := e.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		e.log.Debug().Err(err).Str("path", dst).Msg("could not preserve modification time")
	}
	return n, nil
}

// moveFile renames src to dst, falling back to copy and remove when a plain
// rename is impossible, e.g. across devices.
func (e *Engine) moveFile(src, dst string) (int64, error) {
	info, err := e.fs.Stat(src)
	if err != nil {
		return 0, err
	}
	if ok, err := e.exists(dst); err != nil {
		return 0, err
	} else if ok {
		return 0, fmt.Errorf("destination already exists: %s", dst)
	}

	renameErr := e.fs.Rename(src, dst)
	if renameErr == nil {
		return info.Size(), nil
	}
	e.log.Debug().Err(renameErr).Str("path", src).Msg("rename failed, copying instead")

	n, err := e.copyFile(src, dst)
	if err != nil {
		return 0, errors.Join(renameErr, err)
	}
	if err := e.fs.Remove(src); err != nil {
		e.fs.Remove(dst)
		return 0, fmt.Errorf("removing original after copy: %w", err)
	}
	return n, nil
}
