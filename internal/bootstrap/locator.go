package bootstrap

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/progress"
)

// MaxBootstrapAttempts bounds the acquire/extract passes made by Ensure.
const MaxBootstrapAttempts = 3

// User-facing messages
const (
	MsgDownloaderMissing = "yt-dlp is missing. Trying to download..."
	MsgDownloading       = "Downloading yt-dlp"
	MsgDownloaded        = "yt-dlp downloaded successfully."
	MsgExtracting        = "Found ffmpeg zip file. Extracting..."
	MsgReady             = "All required binaries are ready."
)

// Locator guarantees both executables exist in the libraries directory.
type Locator struct {
	Paths     config.Paths
	Acquirer  Acquirer
	Installer Installer
	Out       io.Writer
	Log       *zap.Logger

	// spin shows an indeterminate indicator while the downloader is fetched
	spin func(w io.Writer, message string) finisher
}

type finisher interface {
	Finish(message string)
}

// NewLocator creates a locator writing user messages to out.
func NewLocator(paths config.Paths, acquirer Acquirer, installer Installer, out io.Writer, log *zap.Logger) *Locator {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{
		Paths:     paths,
		Acquirer:  acquirer,
		Installer: installer,
		Out:       out,
		Log:       log,
		spin: func(w io.Writer, message string) finisher {
			return progress.NewSpinner(w, message)
		},
	}
}

// Binaries returns the expected set with existence flags read from disk.
func (l *Locator) Binaries() model.BinarySet {
	set := model.BinarySet{
		Downloader: model.Binary{Path: l.Paths.DownloaderPath()},
		Muxer:      model.Binary{Path: l.Paths.MuxerPath()},
	}
	set.Downloader.Refresh()
	set.Muxer.Refresh()
	return set
}

// Ensure acquires whatever is missing and returns once both executables are
// present on disk. Both are re-read from disk on every pass, so a step that
// disturbs the other executable is caught before returning. Any acquisition
// failure is fatal.
func (l *Locator) Ensure(ctx context.Context) (model.BinarySet, error) {
	var set model.BinarySet

	for attempt := 0; ; attempt++ {
		set = l.Binaries()
		if set.Ready() {
			break
		}
		if err := ctx.Err(); err != nil {
			return set, err
		}
		if attempt == MaxBootstrapAttempts {
			return set, &model.Error{
				Kind: model.KindBootstrap,
				Op:   "verify binaries",
				Path: l.Paths.LibsDir,
				Err:  fmt.Errorf("still missing after %d attempts: %s", attempt, strings.Join(set.Missing(), ", ")),
			}
		}
		l.Log.Debug("binaries missing", zap.Strings("paths", set.Missing()), zap.Int("attempt", attempt+1))

		if !set.Downloader.Present {
			if err := l.ensureDownloader(ctx, &set.Downloader); err != nil {
				return set, err
			}
		}
		if !set.Muxer.Present {
			if err := l.ensureMuxer(ctx, &set.Muxer); err != nil {
				return set, err
			}
		}
	}

	fmt.Fprintln(l.Out, MsgReady)
	return set, nil
}

func (l *Locator) ensureDownloader(ctx context.Context, bin *model.Binary) error {
	fmt.Fprintln(l.Out, MsgDownloaderMissing)

	var sp finisher
	if l.spin != nil {
		sp = l.spin(l.Out, MsgDownloading)
	}
	err := l.Acquirer.AcquireDownloader(ctx, bin.Path)
	if sp != nil {
		if err != nil {
			sp.Finish("Failed to download yt-dlp")
		} else {
			sp.Finish(MsgDownloaded)
		}
	}

	if err != nil {
		return &model.Error{
			Kind: model.KindBootstrap,
			Op:   "acquire downloader",
			Path: bin.Path,
			Err: fmt.Errorf("%w: %w; download %s manually and place it in %s",
				model.ErrDownloaderMissing, err, filepath.Base(bin.Path), l.Paths.LibsDir),
		}
	}
	if !bin.Refresh() {
		return &model.Error{
			Kind: model.KindBootstrap,
			Op:   "acquire downloader",
			Path: bin.Path,
			Err:  fmt.Errorf("%w: not found after download", model.ErrDownloaderMissing),
		}
	}
	l.Log.Info("downloader installed", zap.String("path", bin.Path))
	return nil
}

func (l *Locator) ensureMuxer(ctx context.Context, bin *model.Binary) error {
	archive := model.Binary{Path: l.Paths.ArchivePath()}
	if !archive.Refresh() {
		return &model.Error{
			Kind: model.KindBootstrap,
			Op:   "install muxer",
			Path: l.Paths.LibsDir,
			Err: fmt.Errorf("%w and %w; place %s or %s in %s manually",
				model.ErrMuxerMissing, model.ErrArchiveMissing,
				filepath.Base(bin.Path), filepath.Base(archive.Path), l.Paths.LibsDir),
		}
	}

	fmt.Fprintln(l.Out, MsgExtracting)
	if err := l.Installer.ExtractAndInstall(ctx, archive.Path, l.Paths.LibsDir); err != nil {
		return err
	}

	if !bin.Refresh() {
		return &model.Error{
			Kind: model.KindBootstrap,
			Op:   "install muxer",
			Path: bin.Path,
			Err:  model.ErrMuxerNotFound,
		}
	}
	l.Log.Info("muxer installed", zap.String("path", bin.Path))
	return nil
}
