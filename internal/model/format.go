package model

import (
	"fmt"
	"strings"
)

// Format is the container requested by the user.
type Format string

const (
	// FormatMP3 extracts the audio track only.
	FormatMP3 Format = "mp3"

	// FormatMP4 merges the best video and audio streams.
	FormatMP4 Format = "mp4"
)

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// IsAudio reports whether the format only carries audio.
func (f Format) IsAudio() bool {
	return f == FormatMP3
}

// ParseFormat validates a user supplied format token. Matching is exact after
// trimming spaces, "MP3" is rejected the same way the downloader would.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimSpace(s)); f {
	case FormatMP3, FormatMP4:
		return f, nil
	default:
		return "", &Error{
			Kind: KindValidation,
			Op:   "parse format",
			Err:  fmt.Errorf("%w: %s", ErrUnsupportedFormat, s),
		}
	}
}
