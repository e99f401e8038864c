package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-fetch/internal/config"
	"github.com/ytget/yt-fetch/internal/model"
)

// File name constants
const (
	AudioPrefix    = "audio"
	VideoPrefix    = "video"
	DefaultTitle   = "video"
	MaxTitleLength = 50
	Replacement    = '_'

	// Field printed by the title query
	TitleField = "title"
)

const forbiddenChars = `/\:*?"<>|`

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Namer derives output file names either from the current time or from the
// video title reported by yt-dlp.
type Namer struct {
	mode       string
	downloader string
	exec       Executor
	log        *zap.Logger
}

// NewNamer creates a namer. mode is config.NamingTimestamp or config.NamingTitle.
func NewNamer(mode, downloaderPath string, exec Executor, log *zap.Logger) *Namer {
	if exec == nil {
		exec = CommandExecutor{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Namer{
		mode:       mode,
		downloader: downloaderPath,
		exec:       exec,
		log:        log,
	}
}

// Resolve returns the file name for req. In title mode a failed title query
// falls back to the timestamp name.
func (n *Namer) Resolve(ctx context.Context, req model.Request, now time.Time) string {
	if n.mode != config.NamingTitle {
		return TimestampName(req, now)
	}

	title, err := n.queryTitle(ctx, req.URL)
	if err != nil {
		n.log.Warn("title query failed, using timestamp name", zap.Error(err))
		return TimestampName(req, now)
	}
	return SanitizeTitle(title) + req.Format.Ext()
}

// TitleCommand configures yt-dlp to print the video title without downloading.
func TitleCommand(downloaderPath string) *ytdlp.Command {
	return ytdlp.New().
		SetExecutable(downloaderPath).
		Print(TitleField).
		SkipDownload().
		NoWarnings()
}

func (n *Namer) queryTitle(ctx context.Context, url string) (string, error) {
	cmd := TitleCommand(n.downloader)
	n.log.Debug("querying title", zap.String("cmd", commandLine(ctx, cmd, url)))

	res, err := n.exec.Run(ctx, cmd, url)
	if err = resultError(filepath.Base(n.downloader), res, err); err != nil {
		return "", err
	}
	if res == nil {
		return "", errors.New("yt-dlp returned no result")
	}

	sc := bufio.NewScanner(strings.NewReader(res.Stdout))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s printed no title", filepath.Base(n.downloader))
}

// TimestampName returns audio_<unix>.mp3 or video_<quality>_<unix>.mp4.
// The quality token is used verbatim.
func TimestampName(req model.Request, now time.Time) string {
	ts := now.Unix()
	if req.Format.IsAudio() {
		return fmt.Sprintf("%s_%d%s", AudioPrefix, ts, req.Format.Ext())
	}
	return fmt.Sprintf("%s_%s_%d%s", VideoPrefix, req.Quality, ts, req.Format.Ext())
}

// SanitizeTitle turns a video title into a portable base name: path and
// shell-sensitive characters, control characters and non-ASCII runes become
// '_', the result is cut to MaxTitleLength and trimmed. Windows device names
// get a trailing '_'. An empty result yields DefaultTitle.
//
// Examples:
//
//	"My Video: Part 1" -> "My Video_ Part 1"
//	"Café"             -> "Caf_"
//	"   "              -> "video"
func SanitizeTitle(title string) string {
	var sb strings.Builder
	sb.Grow(MaxTitleLength)

	n := 0
	for _, r := range title {
		if n >= MaxTitleLength {
			break
		}
		if r > unicode.MaxASCII || unicode.IsControl(r) || strings.ContainsRune(forbiddenChars, r) {
			r = Replacement
		}
		sb.WriteRune(r)
		n++
	}

	name := strings.TrimSpace(sb.String())
	if name == "" {
		return DefaultTitle
	}
	if reservedNames[strings.ToUpper(name)] {
		name += string(Replacement)
	}
	return name
}
