package download

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/nalgeon/be"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/model"
)

var fixedNow = time.Unix(1700000000, 0)

func TestTimestampName(t *testing.T) {
	tests := []struct {
		name    string
		format  model.Format
		quality string
		want    string
	}{
		{"audio", model.FormatMP3, "720", "audio_1700000000.mp3"},
		{"video", model.FormatMP4, "720", "video_720_1700000000.mp4"},
		{"video_best", model.FormatMP4, "best", "video_best_1700000000.mp4"},
		{"video_verbatim_quality", model.FormatMP4, "1080p", "video_1080p_1700000000.mp4"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := model.Request{URL: "u", Format: test.format, Quality: test.quality}
			be.Equal(t, TimestampName(req, fixedNow), test.want)
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "My Video", "My Video"},
		{"forbidden", `a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"control", "line\tbreak\n", "line_break_"},
		{"non_ascii", "Café ☕", "Caf_ _"},
		{"trim", "  padded  ", "padded"},
		{"empty", "", "video"},
		{"spaces_only", "    ", "video"},
		{"truncate", strings.Repeat("x", 80), strings.Repeat("x", 50)},
		{"truncate_then_trim", strings.Repeat("y", 49) + "  tail", strings.Repeat("y", 49)},
		{"reserved", "con", "con_"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := SanitizeTitle(test.title)
			be.Equal(t, got, test.want)
		})
	}
}

func TestSanitizeTitle_Properties(t *testing.T) {
	inputs := []string{"", "ok", strings.Repeat("é", 100), `<<>>`, "\x00\x01", "日本語のタイトル"}
	for _, in := range inputs {
		got := SanitizeTitle(in)
		be.True(t, len(got) > 0)
		be.True(t, len(got) <= MaxTitleLength+1)
		be.True(t, !strings.ContainsAny(got, forbiddenChars))
		for _, r := range got {
			be.True(t, r < 128)
		}
	}
}

func TestNamer_TimestampMode(t *testing.T) {
	exec := &fakeExecutor{}
	n := NewNamer(config.NamingTimestamp, "libs/yt-dlp", exec, nil)
	req := model.Request{URL: "u", Format: model.FormatMP3, Quality: "720"}

	be.Equal(t, n.Resolve(context.Background(), req, fixedNow), "audio_1700000000.mp3")
	be.Equal(t, len(exec.calls), 0)
}

func TestNamer_TitleMode(t *testing.T) {
	exec := &fakeExecutor{result: &ytdlp.Result{Stdout: "\nMy: Title\nsecond line\n"}}
	n := NewNamer(config.NamingTitle, "libs/yt-dlp", exec, nil)
	req := model.Request{URL: "https://youtu.be/x", Format: model.FormatMP4, Quality: "720"}

	got := n.Resolve(context.Background(), req, fixedNow)
	be.Equal(t, got, "My_ Title.mp4")
	be.Equal(t, len(exec.calls), 1)

	argv := exec.calls[0]
	be.Equal(t, argv[0], "libs/yt-dlp")
	be.Equal(t, argv[len(argv)-1], "https://youtu.be/x")
	field, ok := flagValue(argv, "--print")
	be.True(t, ok)
	be.Equal(t, field, "title")
	be.True(t, hasFlag(argv, "--skip-download"))
	be.True(t, hasFlag(argv, "--no-warnings"))
}

func TestNamer_TitleFallback(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"spawn_error", &fakeExecutor{err: errors.New("boom")}},
		{"nonzero_exit", &fakeExecutor{result: &ytdlp.Result{ExitCode: 2, Stdout: "partial"}, err: errors.New("exit status 2")}},
		{"empty_output", &fakeExecutor{result: &ytdlp.Result{Stdout: "  \n\n"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n := NewNamer(config.NamingTitle, "libs/yt-dlp", test.exec, nil)
			req := model.Request{URL: "u", Format: model.FormatMP4, Quality: "480"}
			be.Equal(t, n.Resolve(context.Background(), req, fixedNow), "video_480_1700000000.mp4")
		})
	}
}
