package download

import (
	"context"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-fetch/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	// Download runs the downloader once and blocks until it exits.
	Download(ctx context.Context, req model.Request, outputPath string) error
}

// FileNamer derives the output file name (without directory) for a request.
type FileNamer interface {
	Resolve(ctx context.Context, req model.Request, now time.Time) string
}

// Executor runs a configured yt-dlp command with its positional arguments.
type Executor interface {
	Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error)
}
