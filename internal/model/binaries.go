package model

import "os"

// Binary is an executable (or archive) expected at a fixed path.
type Binary struct {
	Path    string
	Present bool
}

// Refresh re-reads the existence flag from disk.
func (b *Binary) Refresh() bool {
	info, err := os.Stat(b.Path)
	b.Present = err == nil && !info.IsDir()
	return b.Present
}

// BinarySet holds the two executables every download needs.
type BinarySet struct {
	Downloader Binary
	Muxer      Binary
}

// Ready returns true when both executables are present
func (s BinarySet) Ready() bool {
	return s.Downloader.Present && s.Muxer.Present
}

// Missing lists the paths that are still absent.
func (s BinarySet) Missing() []string {
	var missing []string
	if !s.Downloader.Present {
		missing = append(missing, s.Downloader.Path)
	}
	if !s.Muxer.Present {
		missing = append(missing, s.Muxer.Path)
	}
	return missing
}
