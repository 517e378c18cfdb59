package rar

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// Version identifies the RAR container generation found in a file.
type Version int

const (
	VersionNone Version = iota
	Version4
	Version5
)

func (v Version) String() string {
	switch v {
	case Version4:
		return "rar4"
	case Version5:
		return "rar5"
	default:
		return "none"
	}
}

var (
	marker4 = []byte("Rar!\x1a\x07\x00")
	marker5 = []byte("Rar!\x1a\x07\x01\x00")
)

// sniffWindow bounds how far into a file the marker block may sit.
// Self-extracting archives carry an executable stub before it.
const sniffWindow = 1 << 20

const sniffChunk = 64 * 1024

// Sniff reports which RAR marker block, if any, appears within the first
// sniffWindow bytes of path. Comics named .cbz are sometimes RAR
// containers; this tells them apart once ZIP parsing has failed.
func Sniff(path string) (Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return VersionNone, err
	}
	defer f.Close()

	return sniffReader(io.LimitReader(f, sniffWindow+int64(len(marker5))))
}

func sniffReader(r io.Reader) (Version, error) {
	// Consecutive windows overlap so a marker split across reads is found.
	overlap := len(marker5) - 1
	buf := make([]byte, sniffChunk+overlap)
	carry := 0

	for {
		n, err := io.ReadAtLeast(r, buf[carry:], 1)
		window := buf[:carry+n]
		if v := findMarker(window); v != VersionNone {
			return v, nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return VersionNone, nil
		}
		if err != nil {
			return VersionNone, err
		}

		carry = min(overlap, len(window))
		copy(buf, window[len(window)-carry:])
	}
}

func findMarker(window []byte) Version {
	i4 := bytes.Index(window, marker4)
	i5 := bytes.Index(window, marker5)
	switch {
	case i5 >= 0 && (i4 < 0 || i5 < i4):
		return Version5
	case i4 >= 0:
		return Version4
	default:
		return VersionNone
	}
}
