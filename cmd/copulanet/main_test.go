package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/copulanet/builder"
)

// chainCSV writes A→B→C draws to a temporary CSV file.
func chainCSV(t *testing.T, n int) string {
	t.Helper()
	d, err := builder.BuildDAG(3, nil, builder.Chain())
	require.NoError(t, err)
	s, err := builder.LinearGaussianSample(d, n, builder.WithSeed(3), builder.WithConstantWeight(1))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chain.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, s.WriteCSV(f))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "none.env")))
	err := root.Execute()

	return out.String(), err
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", chainCSV(t, 200))
	require.NoError(t, err)
	assert.Contains(t, out, "MEDIAN")
	for _, name := range []string{"A", "B", "C"} {
		assert.Contains(t, out, "\n"+name+" ")
	}
}

func TestLearn(t *testing.T) {
	path := chainCSV(t, 1000)
	t.Setenv("COPULANET_PC_ALPHA", "0.001")

	out, err := run(t, "learn", path, "--stage", "skeleton", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "skeleton"`)
	assert.NotContains(t, out, `"A" -> "C"`)

	out, err = run(t, "learn", path, "--stage", "jt")
	require.NoError(t, err)
	assert.Contains(t, out, "0-1 : ")

	out, err = run(t, "learn", path, "--algo", "tabu", "--format", "proto")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "->"))

	out, err = run(t, "learn", path, "--algo", "miic", "--stage", "pdag")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestLearn_Errors(t *testing.T) {
	path := chainCSV(t, 100)
	for _, args := range [][]string{
		{"learn", path, "--algo", "ges"},
		{"learn", path, "--algo", "tabu", "--stage", "pdag"},
		{"learn", path, "--stage", "moral"},
		{"learn", path, "--stage", "skeleton", "--format", "proto"},
		{"learn", filepath.Join(t.TempDir(), "missing.csv")},
	} {
		_, err := run(t, args...)
		assert.Error(t, err, args)
	}
}

func TestFitAndSample(t *testing.T) {
	path := chainCSV(t, 500)

	out, err := run(t, "fit", path, "--dag", "A->B->C", "--marginal", "normal", "--copula", "independent,gaussian")
	require.NoError(t, err)
	assert.Contains(t, out, "B | {A}")
	assert.Contains(t, out, "FALLBACK")

	out, err = run(t, "sample", path, "--dag", "A->B->C", "--copula", "gaussian", "-n", "10", "--seed", "7")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 11)
	assert.Equal(t, "A,B,C", lines[0])

	_, err = run(t, "fit", path, "--copula", "vine")
	assert.Error(t, err)
	_, err = run(t, "fit", path, "--marginal", "gamma")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "copulanet.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("factory:\n  learning_ratio: 2\n"), 0o600))
	_, err := run(t, "fit", chainCSV(t, 100), "--config", cfg)
	assert.ErrorContains(t, err, "factory.learning_ratio")
}
