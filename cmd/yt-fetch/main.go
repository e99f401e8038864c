package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/app"
	"github.com/ytget/yt-fetch/internal/bootstrap"
	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/logging"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName      = "yt-fetch"
	VerboseLevel = "debug"
)

// Flag names
const (
	FlagURL       = "url"
	FlagFormat    = "format"
	FlagOutputDir = "output-dir"
	FlagQuality   = "quality"
	FlagLibsDir   = "libs-dir"
	FlagCacheDir  = "cache-dir"
	FlagNaming    = "naming"
	FlagConfig    = "config"
	FlagLogLevel  = "log-level"
	FlagVerbose   = "verbose"
)

type options struct {
	url        string
	format     string
	outputDir  string
	quality    string
	libsDir    string
	cacheDir   string
	naming     string
	configFile string
	logLevel   string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	def := config.Default()

	cmd := &cobra.Command{
		Use:           AppName + " --url <URL> [flags]",
		Short:         "Download a video as MP4 or its audio as MP3 using yt-dlp and ffmpeg",
		Example:       AppName + ` -u "https://www.youtube.com/watch?v=XbNghLqsVwU" -f mp3 -o music`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.url, FlagURL, "u", "", "URL of the video to download")
	f.StringVarP(&opts.format, FlagFormat, "f", def.Format, "output format (mp3 or mp4)")
	f.StringVarP(&opts.outputDir, FlagOutputDir, "o", def.OutputDir, "output directory")
	f.StringVarP(&opts.quality, FlagQuality, "q", def.Quality, "quality (best, worst, or a resolution like 720)")
	f.StringVar(&opts.libsDir, FlagLibsDir, def.Paths.LibsDir, "directory holding yt-dlp, ffmpeg and ffmpeg-release.zip")
	f.StringVar(&opts.cacheDir, FlagCacheDir, def.Paths.CacheDir, "cache directory removed before each download")
	f.StringVar(&opts.naming, FlagNaming, def.Naming, "output file naming (timestamp or title)")
	f.StringVar(&opts.configFile, FlagConfig, "", "YAML config file (default "+config.DefaultConfigFile+" if present)")
	f.StringVar(&opts.logLevel, FlagLogLevel, def.LogLevel, "log level (debug, info, warn, error)")
	f.BoolVarP(&opts.verbose, FlagVerbose, "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired(FlagURL)

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.configFile})
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = VerboseLevel
	}
	log, err := logging.New(logging.Config{Level: level, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log = logging.WithRun(log)
	log.Debug("starting", zap.String("version", version), zap.String("libs_dir", cfg.Paths.LibsDir))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := model.Request{
		URL:       cfg.URL,
		Format:    model.Format(cfg.Format),
		Quality:   cfg.Quality,
		OutputDir: cfg.OutputDir,
	}

	downloader, muxer := cfg.Paths.DownloaderPath(), cfg.Paths.MuxerPath()
	a := app.New(cfg, app.Services{
		Runner:     platform.NewExecRunner(log),
		Acquirer:   bootstrap.NewYTDLPAcquirer(log),
		Downloader: download.NewService(downloader, muxer, download.CommandExecutor{}, log),
		Namer:      download.NewNamer(cfg.Naming, downloader, download.CommandExecutor{}, log),
	}, colorable.NewColorableStdout(), log)
	if _, err := a.Run(ctx, req); err != nil {
		log.Debug("run failed", zap.Error(err), zap.String("kind", model.KindOf(err).String()))
		return err
	}
	return nil
}

// applyFlags overrides cfg with the flags set on the command line. Defaults
// of unset flags never override values from the config file or environment.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	cfg.URL = opts.url

	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set(FlagFormat, &cfg.Format, opts.format)
	set(FlagOutputDir, &cfg.OutputDir, opts.outputDir)
	set(FlagQuality, &cfg.Quality, opts.quality)
	set(FlagLibsDir, &cfg.Paths.LibsDir, opts.libsDir)
	set(FlagCacheDir, &cfg.Paths.CacheDir, opts.cacheDir)
	set(FlagNaming, &cfg.Naming, opts.naming)
	set(FlagLogLevel, &cfg.LogLevel, opts.logLevel)
}
