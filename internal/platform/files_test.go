package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nalgeon/be"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestExecutableName(t *testing.T) {
	tests := []struct {
		goos, base, expected string
	}{
		{OSWindows, "yt-dlp", "yt-dlp.exe"},
		{OSWindows, "ffmpeg.exe", "ffmpeg.exe"},
		{OSWindows, "FFMPEG.EXE", "FFMPEG.EXE"},
		{OSLinux, "yt-dlp", "yt-dlp"},
		{OSDarwin, "ffmpeg", "ffmpeg"},
	}

	for _, tt := range tests {
		result := executableName(tt.goos, tt.base)
		if result != tt.expected {
			t.Errorf("executableName(%q, %q) = %q, expected %q", tt.goos, tt.base, result, tt.expected)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "ffmpeg", "bin")

	be.True(t, FileExists(file))
	be.True(t, !FileExists(dir))
	be.True(t, !FileExists(filepath.Join(dir, "missing")))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src/ffmpeg", "muxer-binary")
	dst := filepath.Join(dir, "ffmpeg")

	be.Err(t, CopyFile(src, dst), nil)

	data, err := os.ReadFile(dst)
	be.Err(t, err, nil)
	be.Equal(t, string(data), "muxer-binary")

	if runtime.GOOS != OSWindows {
		info, err := os.Stat(dst)
		be.Err(t, err, nil)
		be.Equal(t, info.Mode().Perm(), os.FileMode(ExecutablePermissions))
	}

	// replaces an existing destination
	src2 := writeFile(t, dir, "src2/ffmpeg", "newer")
	be.Err(t, CopyFile(src2, dst), nil)
	data, _ = os.ReadFile(dst)
	be.Equal(t, string(data), "newer")

	// no temporary leftovers next to dst
	entries, err := os.ReadDir(dir)
	be.Err(t, err, nil)
	be.Equal(t, len(entries), 3)
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	be.Err(t, err, os.ErrNotExist)
	be.True(t, !FileExists(filepath.Join(dir, "dst")))
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cache/a/b.json", "{}")

	removed, err := RemoveIfExists(filepath.Join(dir, "cache"))
	be.Err(t, err, nil)
	be.True(t, removed)

	removed, err = RemoveIfExists(filepath.Join(dir, "cache"))
	be.Err(t, err, nil)
	be.True(t, !removed)
}

func TestListEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yt-dlp", "x")
	writeFile(t, dir, "ffmpeg-7.1/bin/ffmpeg", "x")

	names, err := ListEntries(dir)
	be.Err(t, err, nil)
	be.Equal(t, len(names), 2)
	_, ok := names["ffmpeg-7.1"]
	be.True(t, ok)

	_, err = ListEntries(filepath.Join(dir, "missing"))
	be.Err(t, err, os.ErrNotExist)
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ffmpeg-7.1-essentials/bin/ffmpeg", "x")
	writeFile(t, dir, "ffmpeg-7.1-essentials/doc/ffmpeg.html", "x")

	found, err := FindFile([]string{filepath.Join(dir, "ffmpeg-7.1-essentials")}, "ffmpeg", nil)
	be.Err(t, err, nil)
	be.Equal(t, found, filepath.Join(dir, "ffmpeg-7.1-essentials", "bin", "ffmpeg"))
}

func TestFindFile_DeterministicTieBreak(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "pkg")
	writeFile(t, root, "z/deep/deeper/ffmpeg", "x")
	writeFile(t, root, "b/bin/ffmpeg", "x")
	writeFile(t, root, "a/bin/ffmpeg", "x")

	for i := 0; i < 5; i++ {
		found, err := FindFile([]string{root}, "ffmpeg", nil)
		be.Err(t, err, nil)
		be.Equal(t, found, filepath.Join(root, "a", "bin", "ffmpeg"))
	}

	// shallower beats lexicographically smaller
	writeFile(t, root, "zz/ffmpeg", "x")
	found, err := FindFile([]string{root}, "ffmpeg", nil)
	be.Err(t, err, nil)
	be.Equal(t, found, filepath.Join(root, "zz", "ffmpeg"))
}

func TestFindFile_SkipsIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "tree")
	writeFile(t, root, "node_modules/ffmpeg", "x")
	writeFile(t, root, ".git/ffmpeg", "x")
	writeFile(t, root, "release/bin/ffmpeg", "x")

	found, err := FindFile([]string{root}, "ffmpeg", SkipNames(DefaultSkippedDirs...))
	be.Err(t, err, nil)
	be.Equal(t, found, filepath.Join(root, "release", "bin", "ffmpeg"))

	_, err = FindFile([]string{filepath.Join(root, "node_modules")}, "missing", SkipNames(DefaultSkippedDirs...))
	be.Err(t, err, ErrFileNotFound)
}

func TestFindFile_RootErrors(t *testing.T) {
	_, err := FindFile([]string{filepath.Join(t.TempDir(), "missing")}, "ffmpeg", nil)
	be.Err(t, err)
	be.True(t, !errors.Is(err, ErrFileNotFound))
}

func TestSkipNames(t *testing.T) {
	skip := SkipNames("node_modules", ".git")
	be.True(t, skip("node_modules"))
	be.True(t, skip(".git"))
	be.True(t, !skip("node_modules2"))
	be.True(t, !skip("git"))
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return path
}
