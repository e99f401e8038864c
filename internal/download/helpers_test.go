package download

import (
	"context"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// fakeExecutor records the argv of every command and replies with a canned
// result.
type fakeExecutor struct {
	calls  [][]string
	result *ytdlp.Result
	err    error
}

func (f *fakeExecutor) Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	f.calls = append(f.calls, cmd.BuildCommand(ctx, args...).Args)
	if f.result == nil && f.err == nil {
		return &ytdlp.Result{}, nil
	}
	return f.result, f.err
}

// flagValue returns the value given to a long flag, accepting both the
// "--flag value" and "--flag=value" spellings.
func flagValue(argv []string, flag string) (string, bool) {
	for i, a := range argv {
		if a == flag && i+1 < len(argv) {
			return argv[i+1], true
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v, true
		}
	}
	return "", false
}

func hasFlag(argv []string, flag string) bool {
	for _, a := range argv {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}
