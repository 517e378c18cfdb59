package rar

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nwaples/rardecode/v2"
)

func TestOpenSettingsDecodeOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings OpenSettings
		wantLen  int
	}{
		{name: "empty settings", settings: OpenSettings{}, wantLen: 0},
		{name: "negative dictionary ignored", settings: OpenSettings{MaxDictionaryBytes: -1}, wantLen: 0},
		{name: "max dictionary only", settings: OpenSettings{MaxDictionaryBytes: 1 << 20}, wantLen: 1},
		{name: "password only", settings: OpenSettings{Password: "secret"}, wantLen: 1},
		{name: "both settings", settings: OpenSettings{MaxDictionaryBytes: 1 << 20, Password: "secret"}, wantLen: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := len(tc.settings.decodeOptions()); got != tc.wantLen {
				t.Fatalf("decodeOptions len=%d, want %d", got, tc.wantLen)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if classify(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}

	for _, err := range []error{
		rardecode.ErrArchiveEncrypted,
		rardecode.ErrArchivedFileEncrypted,
		fmt.Errorf("wrapped: %w", rardecode.ErrBadPassword),
	} {
		got := classify(err)
		if !errors.Is(got, ErrEncrypted) {
			t.Fatalf("classify(%v) not tagged as encrypted", err)
		}
		if !errors.Is(got, err) {
			t.Fatalf("classify(%v) dropped the decoder error", err)
		}
	}

	other := errors.New("other failure")
	if got := classify(other); got != other {
		t.Fatalf("classify(other)=%v, want unchanged", got)
	}
}
