package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/funcli/internal/binder"
	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/introspect"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// BindResult holds everything a single harness run produced.
type BindResult struct {
	Bound     map[string]any
	Err       error
	Stdout    string
	Stderr    string
	LogOutput string
}

// NewLogger returns a debug-level text logger writing to buf.
func NewLogger(buf *SafeBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// RunBind derives specs from params and binds tokens against them, capturing
// help output, diagnostics and logs. Spec derivation must succeed.
func RunBind(t *testing.T, params []introspect.Parameter, tokens []string) *BindResult {
	t.Helper()
	return RunBindWithOptions(t, params, tokens, binder.Options{})
}

// RunBindWithOptions is like RunBind but lets the caller set options. The
// program name defaults to "prog"; output writers are always replaced.
func RunBindWithOptions(t *testing.T, params []introspect.Parameter, tokens []string, opts binder.Options) *BindResult {
	t.Helper()

	logBuffer := &SafeBuffer{}
	ctx := ctxlog.WithLogger(context.Background(), NewLogger(logBuffer))

	specs, err := introspect.DeriveSpecs(ctx, params)
	require.NoError(t, err, "deriving parameter specs")

	var stdout, stderr bytes.Buffer
	if opts.Prog == "" {
		opts.Prog = "prog"
	}
	opts.Stdout = &stdout
	opts.Stderr = &stderr

	bound, bindErr := binder.Bind(ctx, specs, tokens, opts)

	if os.Getenv("FUNCLI_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &BindResult{
		Bound:     bound,
		Err:       bindErr,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		LogOutput: logBuffer.String(),
	}
}
