package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions   = 0755
	ExecutablePermissions   = 0755
	WindowsExecutableSuffix = ".exe"
)

// Directory names skipped by default when searching an extracted tree
var (
	DefaultSkippedDirs = []string{"node_modules", ".git"}
)

// ErrFileNotFound is returned by FindFile when no candidate matches.
var ErrFileNotFound = errors.New("file not found")

// SkipFunc decides whether a directory is left out of a search.
type SkipFunc func(name string) bool

// SkipNames returns a SkipFunc matching directories named exactly as one of names.
func SkipNames(names ...string) SkipFunc {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[name]
		return ok
	}
}

// ExecutableName appends the platform executable suffix to base.
func ExecutableName(base string) string {
	return executableName(runtime.GOOS, base)
}

func executableName(goos, base string) string {
	if goos == OSWindows && !strings.HasSuffix(strings.ToLower(base), WindowsExecutableSuffix) {
		return base + WindowsExecutableSuffix
	}
	return base
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file (or a symlink to one).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CopyFile copies src to dst, replacing dst, and marks the result executable.
// The copy is written to a temporary file next to dst first so a failed copy
// never leaves a truncated executable behind.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	if err = tmp.Chmod(ExecutablePermissions); err != nil && runtime.GOOS != OSWindows {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// RemoveIfExists removes path and everything below it. It reports whether
// anything was there to remove.
func RemoveIfExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := os.RemoveAll(path); err != nil {
		return true, err
	}
	return true, nil
}

// ListEntries returns the names of the direct children of dir.
func ListEntries(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	return names, nil
}

// FindFile searches roots depth-first for a regular file called name.
// Directories accepted by skip are not entered and symlinked directories are
// not followed. When several files match, the shallowest one wins and ties are
// broken by the lexicographically smallest path, so the result does not depend
// on directory iteration order.
func FindFile(roots []string, name string, skip SkipFunc) (string, error) {
	var matches []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				// unreadable subtrees are skipped, not fatal
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && skip != nil && skip(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if sameName(d.Name(), name) {
				matches = append(matches, path)
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to search %s: %w", root, err)
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	sort.Slice(matches, func(i, j int) bool {
		di, dj := pathDepth(matches[i]), pathDepth(matches[j])
		if di != dj {
			return di < dj
		}
		return matches[i] < matches[j]
	})
	return matches[0], nil
}

func sameName(a, b string) bool {
	if runtime.GOOS == OSWindows {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func pathDepth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
