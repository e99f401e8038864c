package bootstrap

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/yt-fetch/internal/platform"
)

type runnerFunc func(ctx context.Context, cmd platform.Command) (platform.Result, error)

func (f runnerFunc) Run(ctx context.Context, cmd platform.Command) (platform.Result, error) {
	return f(ctx, cmd)
}

// makeZip writes a zip archive whose entries are the keys of files.
func makeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

// unzipRunner stands in for the platform archive tool and unpacks archive
// into dest with archive/zip. Every invocation is recorded in calls.
func unzipRunner(t *testing.T, archive, dest string, calls *[]platform.Command) platform.Runner {
	t.Helper()
	return runnerFunc(func(_ context.Context, cmd platform.Command) (platform.Result, error) {
		*calls = append(*calls, cmd)

		r, err := zip.OpenReader(archive)
		if err != nil {
			return platform.Result{ExitCode: 9}, nil
		}
		defer r.Close()

		for _, f := range r.File {
			path := filepath.Join(dest, filepath.FromSlash(f.Name))
			if f.FileInfo().IsDir() {
				if err := os.MkdirAll(path, 0o755); err != nil {
					t.Fatalf("mkdir: %v", err)
				}
				continue
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open entry: %v", err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("read entry: %v", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatalf("write entry: %v", err)
			}
		}
		return platform.Result{}, nil
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func writeFileErr(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o755)
}
