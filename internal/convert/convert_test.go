package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abelbrown/mpkio/internal/operator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	kw := operator.Keywords{
		"filepath":       "/maps/C5L1.mpk",
		"use_lightmaps":  true,
		"remove_doubles": false,
	}
	got := BuildArgs([]string{"--quiet"}, operator.KindImport, kw)
	assert.Equal(t, []string{
		"--quiet",
		"import",
		"--remove_doubles=false",
		"--use_lightmaps=true",
		"/maps/C5L1.mpk",
	}, got)
}

func TestBuildArgsWithoutPath(t *testing.T) {
	got := BuildArgs(nil, operator.KindExport, operator.Keywords{"global_axes": "Y,Z"})
	assert.Equal(t, []string{"export", "--global_axes=Y,Z"}, got)
}

func TestLoadNoCommand(t *testing.T) {
	c := NewExecConverter(" ", nil, 0)
	err := c.Load(context.Background(), operator.KindImport, operator.Keywords{})
	assert.ErrorIs(t, err, ErrNoCommand)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "conv.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestLoadPassesArguments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "argv.txt")
	script := writeScript(t, `printf '%s\n' "$@" > `+out)

	c := NewExecConverter(script, nil, 5*time.Second)
	err := c.Load(context.Background(), operator.KindExport, operator.Keywords{
		"filepath": "/tmp/out.mpk",
		"use_all":  true,
		"optimize": false,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "export\n--optimize=false\n--use_all=true\n/tmp/out.mpk\n", string(data))
}

func TestLoadReportsStderr(t *testing.T) {
	script := writeScript(t, `echo "bad chunk header" >&2; exit 3`)
	c := NewExecConverter(script, nil, 5*time.Second)

	err := c.Load(context.Background(), operator.KindImport, operator.Keywords{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad chunk header")
}

func TestLoadTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	c := NewExecConverter(script, nil, 50*time.Millisecond)

	err := c.Load(context.Background(), operator.KindImport, operator.Keywords{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type countingLoader struct {
	mu       sync.Mutex
	inFlight int32
	peak     int32
	fail     string
	seen     []string
}

func (l *countingLoader) Load(ctx context.Context, kind operator.Kind, kw operator.Keywords) error {
	n := atomic.AddInt32(&l.inFlight, 1)
	defer atomic.AddInt32(&l.inFlight, -1)

	l.mu.Lock()
	if n > l.peak {
		l.peak = n
	}
	path, _ := kw["filepath"].(string)
	l.seen = append(l.seen, path)
	l.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	if strings.HasSuffix(path, l.fail) && l.fail != "" {
		return errors.New("corrupt")
	}
	return nil
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	var ops []operator.Operator
	for _, name := range []string{"a.mpk", "b.mpk", "c.mpk", "d.mpk", "e.mpk"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("MPK"), 0644))
		op := operator.NewImport()
		op.SetPath(path)
		ops = append(ops, op)
	}
	bad := operator.NewImport()
	bad.SetPath(filepath.Join(dir, "missing.mpk"))
	ops = append(ops, bad)

	loader := &countingLoader{fail: "c.mpk"}
	results := Batch(context.Background(), loader, ops, 2)

	require.Len(t, results, 6)
	assert.LessOrEqual(t, loader.peak, int32(2))
	assert.Len(t, loader.seen, 5, "invalid ops never reach the loader")

	for i, r := range results {
		assert.Same(t, ops[i], r.Op)
	}
	assert.Equal(t, operator.StatusFinished, results[0].Status)
	assert.Equal(t, operator.StatusCancelled, results[2].Status)
	assert.Error(t, results[2].Err)
	assert.Equal(t, operator.StatusCancelled, results[5].Status)
	assert.NoError(t, results[4].Err)
}
