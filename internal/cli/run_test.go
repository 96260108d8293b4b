package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamelang/flamec/internal/ir"
	"github.com/flamelang/flamec/internal/store"
)

func TestRunCommand(t *testing.T) {
	dir := writeSpecs(t, validSpecs)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "doubler: 10")
}

func TestRunCommandJSON(t *testing.T) {
	dir := writeSpecs(t, validSpecs)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRunCommandRecordsToDatabase(t *testing.T) {
	dir := writeSpecs(t, validSpecs)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", dbPath, dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Recorded as run")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "doubler", run.Pipeline)
	assert.Equal(t, ir.RunSucceeded, run.Status)
	assert.Equal(t, int64(1), run.Seq)
	assert.True(t, ir.Equal(ir.Integer(10), run.Result))

	trace, err := st.ReadTrace(context.Background(), run.Token)
	require.NoError(t, err)
	assert.Len(t, trace, 2)
}

func TestRunCommandFailedPipeline(t *testing.T) {
	dir := writeSpecs(t, `
package specs

pipeline: flip: {
	stages: [{kind: "scale", factor: -1.0}]
	seed: {kind: "bounded", value: 2.0, min: 1.0, max: 5.0}
}
`)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "failed at stage 0")
}

func TestRunCommandNoSeed(t *testing.T) {
	dir := writeSpecs(t, `
package specs

pipeline: bare: {
	stages: [{kind: "identity"}]
}
`)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "declares no seed")
}

func TestRunCommandPipelineSelection(t *testing.T) {
	dir := writeSpecs(t, `
package specs

pipeline: {
	first: {
		stages: [{kind: "identity"}]
		seed: {kind: "integer", value: 1}
	}
	second: {
		stages: [{kind: "scale", factor: 3.0}]
		seed: {kind: "integer", value: 2}
	}
}
`)

	// Ambiguous without --pipeline.
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --pipeline")

	// Explicit selection works.
	buf.Reset()
	cmd = NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--pipeline", "second", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "second: 6")

	// Unknown name is a command error.
	cmd = NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--pipeline", "third", dir})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandMissingSpecsDir(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/directory"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
