package download

import (
	"context"

	"github.com/alessio/shellescape"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-fetch/internal/model"
	"github.com/ytget/yt-fetch/internal/platform"
)

// CommandExecutor runs commands with (*ytdlp.Command).Run.
type CommandExecutor struct{}

// Run executes cmd. The child is killed when ctx is cancelled.
func (CommandExecutor) Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, args...)
}

// commandLine renders the full yt-dlp invocation shell-quoted, for logs.
func commandLine(ctx context.Context, cmd *ytdlp.Command, args ...string) string {
	return shellescape.QuoteCommand(cmd.BuildCommand(ctx, args...).Args)
}

// resultError maps the outcome of a yt-dlp run to an error. The exit code is
// the only success signal; a run that ended without an exit code (killed by
// a signal) is reported as such.
func resultError(name string, res *ytdlp.Result, err error) error {
	if res != nil && res.ExitCode != 0 {
		return &model.ExitError{
			Name:  name,
			Code:  res.ExitCode,
			Known: res.ExitCode != platform.NoExitCode,
		}
	}
	return err
}
