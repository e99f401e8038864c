package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/platform"
)

// InstallFunc matches ytdlp.Install.
type InstallFunc func(ctx context.Context, opts *ytdlp.InstallOptions) (*ytdlp.ResolvedInstall, error)

// YTDLPAcquirer resolves a yt-dlp executable with go-ytdlp (downloading it
// into go-ytdlp's cache when needed) and copies it into the libraries
// directory so later runs find it without network access.
type YTDLPAcquirer struct {
	Install InstallFunc
	Log     *zap.Logger
}

// NewYTDLPAcquirer creates an acquirer backed by ytdlp.Install.
func NewYTDLPAcquirer(log *zap.Logger) *YTDLPAcquirer {
	if log == nil {
		log = zap.NewNop()
	}
	return &YTDLPAcquirer{
		Install: ytdlp.Install,
		Log:     log,
	}
}

// AcquireDownloader installs yt-dlp at dest.
func (a *YTDLPAcquirer) AcquireDownloader(ctx context.Context, dest string) error {
	resolved, err := a.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	if resolved == nil || resolved.Executable == "" {
		return errors.New("failed to install yt-dlp: no executable resolved")
	}

	a.Log.Debug("resolved yt-dlp",
		zap.String("executable", resolved.Executable),
		zap.String("version", resolved.Version))

	if err := platform.CopyFile(resolved.Executable, dest); err != nil {
		return fmt.Errorf("failed to copy yt-dlp to %s: %w", dest, err)
	}
	return nil
}
