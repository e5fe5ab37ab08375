package builder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

type scriptBuilder struct {
	program    string
	searchPath []string
}

// NewScript creates a Builder that runs program as a subprocess. searchPath
// entries are appended to the inherited PATH.
func NewScript(program string, searchPath ...string) interfaces.Builder {
	// A relative program path would otherwise be resolved against the workspace
	if strings.ContainsRune(program, filepath.Separator) {
		if abs, err := filepath.Abs(program); err == nil {
			program = abs
		}
	}
	return &scriptBuilder{
		program:    program,
		searchPath: searchPath,
	}
}

// Run runs the build program in the workspace root and waits for it to exit
func (b *scriptBuilder) Run(ctx context.Context, req *model.BuildRequest) (int, error) {
	logger := ctxlog.From(ctx).With("run_id", req.RunID, "program", b.program)

	cmd := exec.CommandContext(ctx, b.program)
	cmd.Dir = req.Workspace.Root
	cmd.Env = b.environ(req)

	stdout := newLineLogger(logger, "stdout")
	stderr := newLineLogger(logger, "stderr")
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Info("Starting build program", "owner", req.Owner, "repo", req.Repo, "tag", req.Tag)

	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Warn("Build program exited with failure", "exit_code", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}
		return -1, goerr.Wrap(err, "failed to run build program", goerr.V("program", b.program))
	}

	logger.Info("Build program finished", "exit_code", 0)
	return 0, nil
}

// environ builds the full environment of the build program. Nothing else from
// the parent environment is inherited.
func (b *scriptBuilder) environ(req *model.BuildRequest) []string {
	path := os.Getenv("PATH")
	for _, p := range b.searchPath {
		if path == "" {
			path = p
		} else {
			path += string(os.PathListSeparator) + p
		}
	}

	return []string{
		"owner=" + req.Owner,
		"repo=" + req.Repo,
		"tag=" + req.Tag,
		"auth_token=" + req.AuthToken,
		"PATH=" + path,
		"workspace=" + req.Workspace.Root,
		"gemserver=" + req.Workspace.ArtifactDir(),
	}
}

// lineLogger is an io.Writer that logs every complete line it receives
type lineLogger struct {
	logger *slog.Logger
	stream string

	mu  sync.Mutex
	buf bytes.Buffer
}

func newLineLogger(logger *slog.Logger, stream string) *lineLogger {
	return &lineLogger{logger: logger, stream: stream}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		l.emit(line)
	}
	return len(p), nil
}

// Flush logs any trailing partial line
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() > 0 {
		l.emit(l.buf.String())
		l.buf.Reset()
	}
}

func (l *lineLogger) emit(line string) {
	l.logger.Info("build output", "stream", l.stream, "line", strings.TrimRight(line, "\r\n"))
}
