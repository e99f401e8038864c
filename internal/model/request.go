package model

import (
	"fmt"
	"strings"
)

// Request is the user's desired download. It is built once at startup and
// never modified afterwards.
type Request struct {
	URL       string
	Format    Format
	Quality   string // best, worst or a resolution token such as 720
	OutputDir string
}

// NewRequest validates raw command-line values and returns a Request.
func NewRequest(url, format, quality, outputDir string) (Request, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Request{}, &Error{Kind: KindValidation, Op: "parse url", Err: ErrMissingURL}
	}

	f, err := ParseFormat(format)
	if err != nil {
		return Request{}, err
	}

	// the quality token ends up verbatim in timestamp file names
	quality = strings.TrimSpace(quality)
	switch {
	case quality == "":
		return Request{}, &Error{
			Kind: KindValidation,
			Op:   "parse quality",
			Err:  fmt.Errorf("%w: must not be empty", ErrInvalidQuality),
		}
	case strings.ContainsAny(quality, `/\`):
		return Request{}, &Error{
			Kind: KindValidation,
			Op:   "parse quality",
			Err:  fmt.Errorf("%w: %q contains a path separator", ErrInvalidQuality, quality),
		}
	}

	if outputDir == "" {
		outputDir = "."
	}

	return Request{
		URL:       url,
		Format:    f,
		Quality:   quality,
		OutputDir: outputDir,
	}, nil
}
