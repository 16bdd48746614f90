package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamiealquiza/tachymeter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/tether/internal/config"
)

func findCase(t *testing.T, name string) patchCase {
	t.Helper()
	for _, c := range patchCases {
		if c.name == name {
			return c
		}
	}
	t.Fatalf("no patch case %q", name)
	return patchCase{}
}

func TestPatchCaseMutations(t *testing.T) {
	tests := []struct {
		name    string
		created int
		removed int
		textSet int
		moves   bool
	}{
		{name: "create rows", created: 201},
		{name: "update every 10th row", textSet: 10},
		{name: "reverse rows", moves: true},
		{name: "swap two rows", moves: true},
		{name: "append 10%", created: 20},
		{name: "remove every 10th row", removed: 10, moves: true},
		{name: "clear rows", removed: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stats, err := runPatchCase(findCase(t, tt.name), 100)
			require.NoError(t, err)
			assert.Equal(t, tt.created, stats.Created)
			assert.Equal(t, tt.removed, stats.Removed)
			assert.Equal(t, tt.textSet, stats.TextSet)
			assert.Equal(t, tt.moves, stats.Moved > 0)
		})
	}
}

func TestRunPropagateFiresEachWatcherPerWrite(t *testing.T) {
	tach := tachymeter.New(&tachymeter.Config{Size: 5})
	effects := runPropagate(3, 4, 5, tach)
	assert.Equal(t, 15, effects)
}

func TestRunDemo(t *testing.T) {
	for _, tick := range []string{config.TickMicrotask, config.TickMacrotask} {
		t.Run(tick, func(t *testing.T) {
			cfg := config.New()
			cfg.Runtime.Tick = tick
			cfg.Log.Level = "error"
			require.NoError(t, runDemo(context.Background(), cfg, true))
		})
	}
}

func TestConfigInitThenValidate(t *testing.T) {
	dir := t.TempDir()

	root := newRootCmd()
	root.SetArgs([]string{"config", "init", "--yaml", "-C", dir})
	require.NoError(t, root.Execute())
	_, err := os.Stat(filepath.Join(dir, config.YAMLConfigFileName))
	require.NoError(t, err)

	root = newRootCmd()
	root.SetArgs([]string{"config", "init", "--yaml", "-C", dir})
	assert.Error(t, root.Execute(), "init must refuse to overwrite without --force")

	root = newRootCmd()
	root.SetArgs([]string{"config", "validate", "-C", dir})
	require.NoError(t, root.Execute())
}

func TestConfigValidateRejectsBadTick(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Runtime.Tick = "sometimes"
	require.NoError(t, cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)))

	root := newRootCmd()
	root.SetArgs([]string{"config", "validate", "-C", dir})
	assert.Error(t, root.Execute())
}
