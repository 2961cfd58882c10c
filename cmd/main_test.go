package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Alias1177/CrashSignal/internal/commentary"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qualifying = "2 2 2 2 2 2 2 2 2 2 2 2 2 1.4 1.3 1.2 1.1 1.0 0.9 0.8"

func unavailable() models.Explainer {
	return commentary.NewClient(func() (commentary.Generator, error) {
		return nil, commentary.ErrMissingCredential
	})
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(unavailable())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"check"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckArgs(t *testing.T) {
	out, err := run(t, "", strings.Fields(qualifying)...)
	require.NoError(t, err)
	assert.Contains(t, out, "HIGH-TARGET SIGNAL")
	assert.Contains(t, out, commentary.UnavailableMessage)
	assert.Contains(t, out, "7x < 1.50x")
}

func TestCheckStdin(t *testing.T) {
	out, err := run(t, "1.2, 1.3\n1.4")
	require.NoError(t, err)
	assert.Contains(t, out, "Need at least 20 rounds of history")
	assert.Contains(t, out, "Need at least 20 rounds for full AI analysis.")
	assert.NotContains(t, out, commentary.UnavailableMessage)
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(qualifying, " ", ",")), 0o600))

	out, err := run(t, "", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "HIGH-TARGET SIGNAL")
}

func TestCheckRejected(t *testing.T) {
	out, err := run(t, "", "1.2", "oops")
	var rej *rejectedError
	require.True(t, errors.As(err, &rej))
	assert.Contains(t, out, "valid numbers")
	assert.NotContains(t, out, "SIGNAL")
}
