// Package verify checks a written archive against the files it was built
// from.
package verify

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/zip"
)

// Expected is the checksum an archive entry must carry.
type Expected struct {
	Name string
	CRC  uint32
}

// Mismatch describes a checksum mismatch for an archive entry.
type Mismatch struct {
	Name     string
	Expected uint32
	Actual   uint32
}

// VerificationError captures all missing, mismatched and unexpected entries.
type VerificationError struct {
	Missing    []string
	Mismatches []Mismatch
	Extra      []string
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf(
		"archive verification failed: %d missing, %d mismatched, %d unexpected",
		len(e.Missing),
		len(e.Mismatches),
		len(e.Extra),
	)
}

// Archive decompresses every entry of the ZIP at path and compares its CRC32
// with expected.
func Archive(path string, expected []Expected) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	entries := make(map[string]*zip.File, len(reader.File))
	for _, file := range reader.File {
		entries[file.Name] = file
	}

	verr := &VerificationError{}
	for _, want := range expected {
		file, ok := entries[want.Name]
		if !ok {
			verr.Missing = append(verr.Missing, want.Name)
			continue
		}
		delete(entries, want.Name)

		actual, err := entryCRC32(file)
		if err != nil {
			return fmt.Errorf("verify %q: %w", want.Name, err)
		}
		if actual != want.CRC {
			verr.Mismatches = append(verr.Mismatches, Mismatch{
				Name:     want.Name,
				Expected: want.CRC,
				Actual:   actual,
			})
		}
	}
	for name := range entries {
		verr.Extra = append(verr.Extra, name)
	}
	sort.Strings(verr.Extra)

	if len(verr.Missing) > 0 || len(verr.Mismatches) > 0 || len(verr.Extra) > 0 {
		return verr
	}
	return nil
}

// FileCRC32 returns the IEEE CRC32 of the file at path.
func FileCRC32(path string) (uint32, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, file); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}

func entryCRC32(file *zip.File) (uint32, error) {
	rc, err := file.Open()
	if err != nil {
		return 0, err
	}
	h := crc32.NewIEEE()
	_, copyErr := io.Copy(h, rc)
	closeErr := rc.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}
