package gam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limehawk/gam-multi/pkg/logger"
)

const (
	DefaultTimeout        = 300 * time.Second
	DefaultMaxOutputBytes = 1 << 20

	// waitDelay bounds how long Wait keeps draining pipes after the process
	// was killed.
	waitDelay = 2 * time.Second

	notFoundMessage = "GAM not found. Ensure gam7 is installed and in PATH."
)

// Executor runs one command line. Implementations must never panic and must
// always return a populated Outcome.
type Executor interface {
	Run(ctx context.Context, cmd CommandLine, timeout time.Duration) Outcome
}

// RunRecord describes one finished run for audit sinks.
type RunRecord struct {
	EventID    string
	Timestamp  time.Time
	Operation  string
	Command    string
	Binary     string
	ExitCode   int
	Kind       OutcomeKind
	DurationMs int64
	Error      string
}

// Recorder receives a RunRecord after every run.
type Recorder interface {
	Record(rec RunRecord)
}

type ExecutorOptions struct {
	// Binary is the executable that the launch token resolves to. Defaults to "gam".
	Binary string
	// BinaryCandidates are checked in order when Binary is not on PATH.
	BinaryCandidates []string
	DefaultTimeout   time.Duration
	MaxOutputBytes   int
	LookPathFn       func(file string) (string, error)
	NowFn            func() time.Time
	Recorder         Recorder
}

// ProcessExecutor runs GAM as a child process. It holds no per-call state and
// is safe for concurrent use.
type ProcessExecutor struct {
	binary           string
	binaryCandidates []string
	defaultTimeout   time.Duration
	maxOutputBytes   int
	lookPathFn       func(file string) (string, error)
	nowFn            func() time.Time
	recorder         Recorder
}

func NewProcessExecutor(opts ExecutorOptions) *ProcessExecutor {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = LaunchToken
	}
	candidates := opts.BinaryCandidates
	if candidates == nil {
		candidates = DefaultBinaryCandidates()
	}
	timeout := opts.DefaultTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOut := opts.MaxOutputBytes
	if maxOut <= 0 {
		maxOut = DefaultMaxOutputBytes
	}
	lookPathFn := opts.LookPathFn
	if lookPathFn == nil {
		lookPathFn = exec.LookPath
	}
	nowFn := opts.NowFn
	if nowFn == nil {
		nowFn = time.Now
	}
	return &ProcessExecutor{
		binary:           binary,
		binaryCandidates: candidates,
		defaultTimeout:   timeout,
		maxOutputBytes:   maxOut,
		lookPathFn:       lookPathFn,
		nowFn:            nowFn,
		recorder:         opts.Recorder,
	}
}

func (e *ProcessExecutor) DefaultTimeout() time.Duration {
	return e.defaultTimeout
}

// Run executes cmd, prefixing the launch token if it is missing. A timeout of
// zero or less uses the executor default.
func (e *ProcessExecutor) Run(ctx context.Context, cmd CommandLine, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	cmd = cmd.WithLaunchToken()
	start := e.nowFn()
	eventID := uuid.NewString()
	operation := OperationFrom(ctx)
	display := cmd.String()

	binaryPath, err := e.ResolveBinaryPath()
	if err != nil {
		out := Outcome{
			Error:    notFoundMessage + "\n" + err.Error(),
			ExitCode: ExitCodeNotRun,
			Kind:     OutcomeNotFound,
			Command:  display,
		}
		logger.ErrorCF("gam", "GAM command failed (binary missing)", map[string]interface{}{
			"event_id":  eventID,
			"operation": operation,
			"error":     err.Error(),
		})
		e.record(eventID, start, operation, "", out)
		return out
	}

	logger.DebugCF("gam", "Resolved GAM binary", map[string]interface{}{
		"event_id": eventID,
		"path":     binaryPath,
	})
	logger.InfoCF("gam", "Executing GAM command", map[string]interface{}{
		"event_id":  eventID,
		"operation": operation,
		"command":   display,
		"timeout":   timeout.String(),
	})

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := cmd.Args()[1:]
	proc := exec.CommandContext(cmdCtx, binaryPath, args...)
	configureProcessGroup(proc)
	proc.WaitDelay = waitDelay

	stdout := &cappedBuffer{limit: e.maxOutputBytes}
	stderr := &cappedBuffer{limit: e.maxOutputBytes}
	proc.Stdout = stdout
	proc.Stderr = stderr

	runErr := proc.Run()
	out := Outcome{
		Output:   stdout.String(),
		Command:  display,
		Duration: e.nowFn().Sub(start),
	}
	e.classify(&out, runErr, ctx, cmdCtx, timeout, stderr.String())

	fields := map[string]interface{}{
		"event_id":    eventID,
		"operation":   operation,
		"exit_code":   out.ExitCode,
		"kind":        string(out.Kind),
		"duration_ms": out.Duration.Milliseconds(),
	}
	if out.Success {
		logger.InfoCF("gam", "GAM command completed", fields)
	} else {
		fields["error"] = firstLine(out.Error)
		logger.ErrorCF("gam", "GAM command failed", fields)
	}
	e.record(eventID, start, operation, binaryPath, out)
	return out
}

func (e *ProcessExecutor) classify(out *Outcome, runErr error, parent, cmdCtx context.Context, timeout time.Duration, stderr string) {
	if runErr == nil {
		out.Success = true
		out.ExitCode = 0
		out.Kind = OutcomeOK
		return
	}

	out.ExitCode = ExitCodeNotRun
	switch {
	case parent.Err() != nil:
		out.Kind = OutcomeCancelled
		out.Error = fmt.Sprintf("Command cancelled: %v", parent.Err())
		return
	case errors.Is(cmdCtx.Err(), context.DeadlineExceeded):
		out.Kind = OutcomeTimeout
		out.Error = fmt.Sprintf("Command timed out after %s", formatTimeout(timeout))
		return
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(runErr, &exitErr):
		out.Kind = OutcomeToolError
		out.ExitCode = exitErr.ExitCode()
		out.Error = strings.TrimSpace(stderr)
		if out.Error == "" {
			out.Error = runErr.Error()
		}
	case errors.Is(runErr, exec.ErrNotFound), errors.Is(runErr, fs.ErrNotExist):
		out.Kind = OutcomeNotFound
		out.Error = notFoundMessage
	default:
		out.Kind = OutcomeStartError
		out.Error = fmt.Sprintf("failed to run GAM: %v", runErr)
	}
}

func (e *ProcessExecutor) record(eventID string, start time.Time, operation, binary string, out Outcome) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(RunRecord{
		EventID:    eventID,
		Timestamp:  start.UTC(),
		Operation:  operation,
		Command:    out.Command,
		Binary:     binary,
		ExitCode:   out.ExitCode,
		Kind:       out.Kind,
		DurationMs: out.Duration.Milliseconds(),
		Error:      out.Error,
	})
}

// ResolveBinaryPath returns the executable the launch token maps to, trying
// PATH first and then the fallback candidates.
func (e *ProcessExecutor) ResolveBinaryPath() (string, error) {
	if p, err := e.lookPathFn(e.binary); err == nil && strings.TrimSpace(p) != "" {
		return p, nil
	}

	checked := make([]string, 0, len(e.binaryCandidates))
	for _, candidate := range e.binaryCandidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		checked = append(checked, candidate)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
	}
	if len(checked) == 0 {
		return "", fmt.Errorf("%s binary not found in PATH (no fallback candidates configured)", e.binary)
	}
	return "", fmt.Errorf("%s binary not found in PATH or fallback paths: %s", e.binary, strings.Join(checked, ", "))
}

// DefaultBinaryCandidates lists the usual GAM7 install locations.
func DefaultBinaryCandidates() []string {
	seen := map[string]struct{}{}
	candidates := make([]string, 0, 4)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		candidates = append(candidates, v)
	}

	binName := "gam"
	if runtime.GOOS == "windows" {
		binName = "gam.exe"
	}
	add(os.Getenv("GAM_BINARY"))
	if home, err := os.UserHomeDir(); err == nil {
		add(filepath.Join(home, "bin", "gam7", binName))
		add(filepath.Join(home, "bin", "gam", binName))
	}
	switch runtime.GOOS {
	case "darwin":
		add(filepath.Join("/opt/homebrew/bin", binName))
		add(filepath.Join("/usr/local/bin", binName))
	case "linux":
		add(filepath.Join("/usr/local/bin", binName))
	case "windows":
		if pf := strings.TrimSpace(os.Getenv("ProgramFiles")); pf != "" {
			add(filepath.Join(pf, "GAM7", binName))
		}
	}
	return candidates
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}

func formatTimeout(d time.Duration) string {
	if d >= time.Second && d%time.Second == 0 {
		secs := int64(d / time.Second)
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	return d.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// cappedBuffer keeps the first limit bytes written and counts the rest.
type cappedBuffer struct {
	buf     bytes.Buffer
	limit   int
	dropped int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.dropped += len(p)
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.dropped += len(p) - room
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	if b.dropped == 0 {
		return b.buf.String()
	}
	return b.buf.String() + fmt.Sprintf("\n... (truncated, %d more bytes)", b.dropped)
}

type operationKey struct{}

// WithOperation labels ctx with the operation name recorded for each run.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey{}, name)
}

func OperationFrom(ctx context.Context) string {
	if v, ok := ctx.Value(operationKey{}).(string); ok {
		return v
	}
	return ""
}
