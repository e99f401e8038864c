// Package bootstrap makes sure the downloader and muxer executables exist in
// the libraries directory before anything is downloaded. The downloader is
// fetched with go-ytdlp, the muxer is unpacked from a bundled zip archive.
package bootstrap

import (
	"context"
)

// Acquirer installs the downloader executable at dest.
type Acquirer interface {
	AcquireDownloader(ctx context.Context, dest string) error
}

// Installer unpacks the muxer archive and installs the muxer executable.
type Installer interface {
	ExtractAndInstall(ctx context.Context, archivePath, libsDir string) error
}
