package rar

import (
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// ErrEncrypted marks archives that need a password, or were given the
// wrong one.
var ErrEncrypted = errors.New("rar archive is encrypted")

type archiveReadCloser interface {
	archiveReader
	io.Closer
}

type openReaderFunc func(path string, opts ...rardecode.Option) (archiveReadCloser, error)

func openArchiveReader(path string, opts ...rardecode.Option) (archiveReadCloser, error) {
	return rardecode.OpenReader(path, opts...)
}

// OpenSettings holds decoder limits and credentials.
type OpenSettings struct {
	// MaxDictionaryBytes caps decoder memory; zero keeps the library limit.
	MaxDictionaryBytes int64
	Password           string
}

func (s OpenSettings) decodeOptions() []rardecode.Option {
	var opts []rardecode.Option
	if s.MaxDictionaryBytes > 0 {
		opts = append(opts, rardecode.MaxDictionarySize(s.MaxDictionaryBytes))
	}
	if s.Password != "" {
		opts = append(opts, rardecode.Password(s.Password))
	}
	return opts
}

// classify tags decoder credential failures with ErrEncrypted while
// keeping the decoder error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, rardecode.ErrArchiveEncrypted) ||
		errors.Is(err, rardecode.ErrArchivedFileEncrypted) ||
		errors.Is(err, rardecode.ErrBadPassword) {
		return fmt.Errorf("%w: %w", ErrEncrypted, err)
	}
	return err
}
