package bootstrap

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
)

// Extractor unpacks the muxer archive with the platform archive tool, finds
// the muxer executable in the extracted tree and installs it at the top of
// the libraries directory.
type Extractor struct {
	Runner    platform.Runner
	MuxerName string
	Protect   []string // names in the libraries directory never removed by cleanup
	Skip      platform.SkipFunc
	Log       *zap.Logger
}

// NewExtractor creates an extractor for the platform's ffmpeg executable,
// skipping platform.DefaultSkippedDirs while searching.
func NewExtractor(runner platform.Runner, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		Runner:    runner,
		MuxerName: platform.ExecutableName(config.MuxerBaseName),
		Protect:   []string{platform.ExecutableName(config.DownloaderBaseName)},
		Skip:      platform.SkipNames(platform.DefaultSkippedDirs...),
		Log:       log,
	}
}

// ExtractAndInstall extracts archivePath into libsDir and copies the muxer it
// contains to libsDir/MuxerName. On success the archive and every top-level
// entry the extraction created are removed. Entries that existed before, the
// installed muxer and the names in Protect are kept. Removal failures are
// logged and do not fail the call.
func (e *Extractor) ExtractAndInstall(ctx context.Context, archivePath, libsDir string) error {
	before, err := platform.ListEntries(libsDir)
	if err != nil {
		return model.FSError("read libraries directory", libsDir, err)
	}

	cmd := platform.ExtractCommand(archivePath, libsDir)
	e.Log.Debug("extracting archive", zap.String("cmd", cmd.String()))

	res, err := e.Runner.Run(ctx, cmd)
	if err != nil {
		return &model.Error{Kind: model.KindBootstrap, Op: "extract", Path: archivePath, Err: err}
	}
	if !res.Success() {
		return &model.Error{
			Kind: model.KindBootstrap,
			Op:   "extract",
			Path: archivePath,
			Err: &model.ExitError{
				Name:  cmd.Name(),
				Code:  res.ExitCode,
				Known: res.ExitCode != platform.NoExitCode,
			},
		}
	}

	after, err := platform.ListEntries(libsDir)
	if err != nil {
		return model.FSError("read libraries directory", libsDir, err)
	}

	target := filepath.Join(libsDir, e.MuxerName)
	roots, created := e.extractedEntries(archivePath, libsDir, before, after)

	found, err := platform.FindFile(roots, e.MuxerName, e.Skip)
	if err != nil {
		if errors.Is(err, platform.ErrFileNotFound) {
			err = model.ErrMuxerNotFound
		}
		return &model.Error{
			Kind: model.KindBootstrap,
			Op:   "locate " + e.MuxerName,
			Path: libsDir,
			Err:  fmt.Errorf("%w; check that %s contains %s", err, filepath.Base(archivePath), e.MuxerName),
		}
	}
	e.Log.Debug("found muxer", zap.String("path", found))

	if filepath.Clean(found) != filepath.Clean(target) {
		if err := platform.CopyFile(found, target); err != nil {
			return model.FSError("install muxer", target, err)
		}
	}

	e.cleanup(archivePath, libsDir, created)
	return nil
}

// extractedEntries splits the top-level names under libsDir touched by the
// extraction into search roots and entries to clean up. Archive entries that
// already existed before the snapshot (for example a directory left behind by
// an interrupted run) are searched but never removed; only names that did not
// exist before are removed afterwards.
func (e *Extractor) extractedEntries(archivePath, libsDir string, before, after map[string]struct{}) (roots, created []string) {
	touched := make(map[string]struct{})

	names, err := archiveTopLevel(archivePath)
	if err != nil {
		e.Log.Warn("could not list archive entries, relying on directory snapshot",
			zap.String("archive", archivePath), zap.Error(err))
	}
	for _, n := range names {
		if _, ok := after[n]; ok {
			touched[n] = struct{}{}
		}
	}
	for n := range after {
		if _, ok := before[n]; !ok {
			touched[n] = struct{}{}
		}
	}
	delete(touched, filepath.Base(archivePath))

	sorted := make([]string, 0, len(touched))
	for n := range touched {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	for _, n := range sorted {
		if e.Skip == nil || !e.Skip(n) {
			roots = append(roots, filepath.Join(libsDir, n))
		}
		if _, existed := before[n]; existed || e.protected(n) {
			continue
		}
		created = append(created, n)
	}
	return roots, created
}

func (e *Extractor) protected(name string) bool {
	for _, p := range append([]string{e.MuxerName}, e.Protect...) {
		if sameEntry(name, p) {
			return true
		}
	}
	return false
}

func (e *Extractor) cleanup(archivePath, libsDir string, created []string) {
	if _, err := platform.RemoveIfExists(archivePath); err != nil {
		e.Log.Warn("failed to remove archive", zap.String("path", archivePath), zap.Error(err))
	}

	for _, name := range created {
		path := filepath.Join(libsDir, name)
		removed, err := platform.RemoveIfExists(path)
		if err != nil {
			e.Log.Warn("failed to remove extracted entry", zap.String("path", path), zap.Error(err))
			continue
		}
		if removed {
			e.Log.Debug("removed extracted entry", zap.String("path", path))
		}
	}
}

// sameEntry compares directory entry names the way the host file system does.
func sameEntry(a, b string) bool {
	if runtime.GOOS == platform.OSWindows {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// archiveTopLevel reads the zip central directory and returns the distinct
// first path components of its entries.
func archiveTopLevel(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	seen := make(map[string]struct{})
	var names []string
	for _, f := range r.File {
		name := strings.TrimLeft(strings.ReplaceAll(f.Name, "\\", "/"), "/")
		top, _, _ := strings.Cut(name, "/")
		if top == "" || top == "." || top == ".." {
			continue
		}
		if _, ok := seen[top]; ok {
			continue
		}
		seen[top] = struct{}{}
		names = append(names, top)
	}
	return names, nil
}
