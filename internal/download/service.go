package download

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/model"
)

// yt-dlp option values
const (
	AudioQualityBest  = "0"
	MP4FormatSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
)

// Service runs yt-dlp through an Executor.
type Service struct {
	downloader string
	muxer      string
	exec       Executor
	log        *zap.Logger
}

// NewService creates a new download service for the executables at
// downloaderPath and muxerPath. The paths need not exist yet.
func NewService(downloaderPath, muxerPath string, exec Executor, log *zap.Logger) *Service {
	if exec == nil {
		exec = CommandExecutor{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		downloader: downloaderPath,
		muxer:      muxerPath,
		exec:       exec,
		log:        log,
	}
}

// BuildCommand configures the yt-dlp command for req. The URL is not part of
// the command, it is passed to Run. muxerPath is set as --ffmpeg-location when
// not empty.
func BuildCommand(req model.Request, downloaderPath, muxerPath, outputPath string) (*ytdlp.Command, error) {
	cmd := ytdlp.New().SetExecutable(downloaderPath)

	switch req.Format {
	case model.FormatMP3:
		cmd.ExtractAudio().
			AudioFormat(model.FormatMP3.String()).
			AudioQuality(AudioQualityBest)
	case model.FormatMP4:
		cmd.Format(MP4FormatSelector).
			MergeOutputFormat(model.FormatMP4.String())
	default:
		return nil, &model.Error{
			Kind: model.KindValidation,
			Op:   "build command",
			Err:  fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, req.Format),
		}
	}

	cmd.Output(outputPath)
	if muxerPath != "" {
		cmd.FFmpegLocation(muxerPath)
	}
	return cmd, nil
}

// Download runs yt-dlp for req, writing to outputPath. The exit status is the
// only success signal; the output file is not inspected.
func (s *Service) Download(ctx context.Context, req model.Request, outputPath string) error {
	cmd, err := BuildCommand(req, s.downloader, s.muxer, outputPath)
	if err != nil {
		return err
	}

	s.log.Info("running downloader",
		zap.String("cmd", commandLine(ctx, cmd, req.URL)),
		zap.String("format", req.Format.String()))

	started := time.Now()
	res, err := s.exec.Run(ctx, cmd, req.URL)
	if err = resultError(filepath.Base(s.downloader), res, err); err != nil {
		fields := []zap.Field{
			zap.Error(err),
			zap.Duration("elapsed", time.Since(started)),
			zap.NamedError("ctx", ctx.Err()),
		}
		if res != nil {
			fields = append(fields, zap.String("stderr", res.Stderr))
		}
		s.log.Warn("downloader failed", fields...)
		return &model.Error{Kind: model.KindDispatch, Op: "run downloader", Err: err}
	}

	s.log.Debug("downloader finished", zap.Duration("elapsed", time.Since(started)))
	return nil
}
