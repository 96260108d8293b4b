package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamelang/flamec/internal/ir"
)

// validSpecs is a complete pipeline definition used across CLI tests.
const validSpecs = `
package specs

pipeline: doubler: {
	stages: [
		{kind: "identity"},
		{kind: "scale", factor: 2.0},
	]
	seed: {kind: "integer", value: 5}
}
`

// writeSpecs writes CUE source into a fresh temp directory.
func writeSpecs(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "specs.cue"), []byte(src), 0644))
	return dir
}

func TestLoadPipelines(t *testing.T) {
	dir := writeSpecs(t, validSpecs)

	result, errs := LoadPipelines(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Pipelines, 1)

	p := result.Pipelines[0]
	assert.Equal(t, "doubler", p.Spec.Name)
	require.Len(t, p.Spec.Stages, 2)
	assert.True(t, ir.Equal(ir.Integer(5), p.Seed))
}

func TestLoadPipelines_NoSeed(t *testing.T) {
	dir := writeSpecs(t, `
package specs

pipeline: bare: {
	stages: [{kind: "identity"}]
}
`)

	result, errs := LoadPipelines(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Pipelines, 1)
	assert.Nil(t, result.Pipelines[0].Seed)
}

func TestLoadPipelines_DirNotFound(t *testing.T) {
	result, errs := LoadPipelines("/nonexistent/directory", LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "specs directory not found")
}

func TestLoadPipelines_NoCUEFiles(t *testing.T) {
	result, errs := LoadPipelines(t.TempDir(), LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no CUE files found")
}

func TestLoadPipelines_CompileErrorCollectAll(t *testing.T) {
	dir := writeSpecs(t, `
package specs

pipeline: {
	broken: {
		stages: [{kind: "identity", factor: 3.0}]
	}
	ok: {
		stages: [{kind: "scale", factor: 2.0}]
	}
}
`)

	result, errs := LoadPipelines(dir, LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeStageFactor, loadErr.Code)

	// The valid pipeline still loads.
	require.Len(t, result.Pipelines, 1)
	assert.Equal(t, "ok", result.Pipelines[0].Spec.Name)
}

func TestLoadPipelines_BoundedSeedOutOfRange(t *testing.T) {
	dir := writeSpecs(t, `
package specs

pipeline: bad: {
	stages: [{kind: "identity"}]
	seed: {kind: "bounded", value: 9.0, min: 0.0, max: 5.0}
}
`)

	_, errs := LoadPipelines(dir, LoadModeFailFast)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeBoundViolation, loadErr.Code)
}

func TestLoadPipelines_NoPipelines(t *testing.T) {
	dir := writeSpecs(t, `
package specs

other: field: 1
`)

	_, errs := LoadPipelines(dir, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no pipelines found")
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package specs"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("not cue"), 0644))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.cue"), []byte("package specs"), 0644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeMissingStages, MapFieldToErrorCode("stages"))
	assert.Equal(t, ErrCodeStageKind, MapFieldToErrorCode("kind"))
	assert.Equal(t, ErrCodeStageFactor, MapFieldToErrorCode("factor"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("something-else"))
}
