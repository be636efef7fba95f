package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultParallelThreshold, c.ParallelThreshold)
	assert.Equal(t, 0, c.WorkerPoolSize)
	assert.Equal(t, 0, c.ChunkSize)
	assert.False(t, c.CSVInferTypes)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	c := New()
	c.ParallelThreshold = 0
	assert.Error(t, c.Validate())

	c = New()
	c.WorkerPoolSize = -1
	assert.Error(t, c.Validate())

	c = New()
	c.ChunkSize = -1
	assert.Error(t, c.Validate())
}

func TestGlobalRoundTrip(t *testing.T) {
	defer Reset()

	custom := Config{ParallelThreshold: 50, WorkerPoolSize: 2, CSVInferTypes: true}
	require.NoError(t, SetGlobal(custom))
	got := Global()
	assert.Equal(t, 50, got.ParallelThreshold)
	assert.Equal(t, 2, got.WorkerPoolSize)
	assert.True(t, got.CSVInferTypes)

	assert.Error(t, SetGlobal(Config{ParallelThreshold: -1}), "invalid config is rejected")

	Reset()
	assert.Equal(t, DefaultParallelThreshold, Global().ParallelThreshold)
}

func TestSetGlobalFillsDefaults(t *testing.T) {
	defer Reset()
	require.NoError(t, SetGlobal(Config{WorkerPoolSize: 4}))
	assert.Equal(t, DefaultParallelThreshold, Global().ParallelThreshold)
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemur.yaml")
	content := "parallel_threshold: 200\nworker_pool_size: 3\ncsv_infer_types: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 200, c.ParallelThreshold)
	assert.Equal(t, 3, c.WorkerPoolSize)
	assert.True(t, c.CSVInferTypes)
}

func TestLoadFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemur.json")
	content := `{"parallel_threshold": 300, "chunk_size": 64}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 300, c.ParallelThreshold)
	assert.Equal(t, 64, c.ChunkSize)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "lemur.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err, "unsupported extension")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LEMUR_PARALLEL_THRESHOLD", "123")
	t.Setenv("LEMUR_WORKER_POOL_SIZE", "5")
	t.Setenv("LEMUR_CSV_INFER_TYPES", "true")

	c := FromEnv(New())
	assert.Equal(t, 123, c.ParallelThreshold)
	assert.Equal(t, 5, c.WorkerPoolSize)
	assert.True(t, c.CSVInferTypes)
}

func TestFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("LEMUR_PARALLEL_THRESHOLD", "not-a-number")
	c := FromEnv(New())
	assert.Equal(t, DefaultParallelThreshold, c.ParallelThreshold)
}
