// Package app wires bootstrap, naming, progress and dispatch into the single
// run performed by the yt-fetch command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/bootstrap"
	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
	"github.com/ytget/yt-fetch/internal/progress"
)

// User-facing messages
const (
	MsgInitializing = "Initializing downloader..."
	MsgDownloading  = "Downloading"
)

type reporter interface {
	Start()
	Stop(ok bool)
}

// Services are the collaborators an App drives.
type Services struct {
	Runner     platform.Runner // archive tool
	Acquirer   bootstrap.Acquirer
	Downloader download.Downloader
	Namer      download.FileNamer
}

// App performs one download per Run call.
type App struct {
	cfg config.Config
	svc Services
	out io.Writer
	log *zap.Logger

	now         func() time.Time
	newReporter func(w io.Writer, description string, opts progress.Options) reporter
}

// New creates an app. out receives the user-facing lines; diagnostics go to log.
func New(cfg config.Config, svc Services, out io.Writer, log *zap.Logger) *App {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		cfg: cfg,
		svc: svc,
		out: out,
		log: log,
		now: time.Now,
		newReporter: func(w io.Writer, description string, opts progress.Options) reporter {
			return progress.New(w, description, opts)
		},
	}
}

// Run validates req, bootstraps the executables, downloads and reports the
// saved file. Nothing is created on disk when req is invalid.
func (a *App) Run(ctx context.Context, req model.Request) (model.Artifact, error) {
	req, err := model.NewRequest(req.URL, req.Format.String(), req.Quality, req.OutputDir)
	if err != nil {
		return model.Artifact{}, err
	}

	fmt.Fprintln(a.out, MsgInitializing)
	for _, dir := range []string{req.OutputDir, a.cfg.Paths.LibsDir} {
		if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
			return model.Artifact{}, model.FSError("create directory", dir, err)
		}
	}

	extractor := bootstrap.NewExtractor(a.svc.Runner, a.log)
	extractor.Skip = platform.SkipNames(a.cfg.SkipDirs...)
	locator := bootstrap.NewLocator(a.cfg.Paths, a.svc.Acquirer, extractor, a.out, a.log)

	bins, err := locator.Ensure(ctx)
	if err != nil {
		return model.Artifact{}, err
	}
	a.log.Debug("binaries ready",
		zap.String("downloader", bins.Downloader.Path),
		zap.String("muxer", bins.Muxer.Path))

	outputPath := filepath.Join(req.OutputDir, a.svc.Namer.Resolve(ctx, req, a.now()))

	a.clearCache()

	fmt.Fprintf(a.out, "Downloading from URL: %s\n", req.URL)
	artifact := model.Artifact{Path: outputPath, Format: req.Format, StartedAt: a.now()}

	rep := a.newReporter(a.out, MsgDownloading, progress.Options{Interval: a.cfg.TickInterval})
	rep.Start()
	err = a.svc.Downloader.Download(ctx, req, outputPath)
	rep.Stop(err == nil)

	artifact.FinishedAt = a.now()
	if err != nil {
		return artifact, err
	}

	if info, statErr := os.Stat(outputPath); statErr == nil {
		artifact.Size = info.Size()
		fmt.Fprintf(a.out, "File saved to: %s (%s)\n", outputPath, humanize.Bytes(uint64(artifact.Size)))
	} else {
		a.log.Debug("output not found at expected path", zap.String("path", outputPath), zap.Error(statErr))
		fmt.Fprintf(a.out, "File saved to: %s\n", outputPath)
	}

	a.log.Info("download finished",
		zap.String("path", outputPath),
		zap.Int64("size", artifact.Size),
		zap.Duration("elapsed", artifact.Elapsed()))
	return artifact, nil
}

// clearCache removes the cache directory left by earlier runs. Failure only
// produces a warning.
func (a *App) clearCache() {
	dir := a.cfg.Paths.CacheDir
	if dir == "" {
		return
	}
	removed, err := platform.RemoveIfExists(dir)
	if err != nil {
		a.log.Warn("failed to remove cache directory", zap.String("path", dir), zap.Error(err))
		return
	}
	if removed {
		a.log.Debug("removed cache directory", zap.String("path", dir))
	}
}
