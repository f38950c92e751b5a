package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/tetracoords/internal/config"
	"github.com/gravitas-games/tetracoords/pkg/tspace"
)

func newTestRunner(t *testing.T) (*runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r, err := newRunner(config.Default(), &out)
	require.NoError(t, err)
	return r, &out
}

func position(line string) string {
	_, p, _ := strings.Cut(strings.TrimSpace(line), " -> ")
	return p
}

func TestConvert(t *testing.T) {
	r, out := newTestRunner(t)

	require.NoError(t, r.run([]string{"convert", "11"}))
	assert.True(t, strings.HasPrefix(out.String(), "11 -> ("))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), ", -1)"))

	out.Reset()
	require.NoError(t, r.run([]string{"convert", "0012"}))
	high := position(out.String())

	out.Reset()
	require.NoError(t, r.run([]string{"convert", "-order", "l", "2100"}))
	assert.Equal(t, high, position(out.String()))

	assert.Error(t, r.run([]string{"convert", "19"}))
	assert.ErrorIs(t, r.run([]string{"convert"}), errUsage)
	assert.Error(t, r.run([]string{"convert", "-order", "x", "1"}))
}

func TestLocateAndCell(t *testing.T) {
	r, out := newTestRunner(t)

	require.NoError(t, r.run([]string{"locate", "200", "230"}))
	assert.Contains(t, out.String(), "tcoord    1\n")
	assert.Contains(t, out.String(), "flip      false\n")
	assert.Contains(t, out.String(), "bounds    (200, 230)\n")

	out.Reset()
	require.NoError(t, r.run([]string{"cell", "1.02"}))
	assert.Contains(t, out.String(), "tcoord    1.02\n")
	assert.Contains(t, out.String(), "size      0.25\n")

	out.Reset()
	require.NoError(t, r.run([]string{"nearest", "-levels", "1", "200", "230"}))
	assert.Contains(t, out.String(), "centroid  (200, 222.5)\n")
	assert.ErrorIs(t, r.run([]string{"nearest", "-levels", "0", "1", "1"}), tspace.ErrInvalidSpace)
	assert.ErrorIs(t, r.run([]string{"nearest", "1"}), errUsage)

	assert.ErrorIs(t, r.run([]string{"locate", "200"}), errUsage)
	assert.ErrorContains(t, r.run([]string{"locate", "x", "1"}), "invalid x")
	assert.ErrorContains(t, r.run([]string{"locate", "1", "y"}), "invalid y")
}

func TestPlot(t *testing.T) {
	r, out := newTestRunner(t)
	path := filepath.Join(t.TempDir(), "cells.svg")

	require.NoError(t, r.run([]string{"plot", "-levels", "2", "-o", path}))
	assert.Contains(t, out.String(), "wrote 2-level plot")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	bad := filepath.Join(t.TempDir(), "cells.bmp")
	assert.Error(t, r.run([]string{"plot", "-o", bad}))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, r.run([]string{"plot", "-o", filepath.Join(t.TempDir(), "cells")}), errUsage)
}

func TestPlotFailureKeepsExistingFile(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "keep.png")
	require.NoError(t, os.WriteFile(png, []byte("precious"), 0o644))
	assert.ErrorIs(t, r.run([]string{"plot", "-levels", "99", "-o", png}), tspace.ErrInvalidSpace)
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data))

	bmp := filepath.Join(dir, "keep.bmp")
	require.NoError(t, os.WriteFile(bmp, []byte("precious"), 0o644))
	assert.Error(t, r.run([]string{"plot", "-levels", "1", "-o", bmp}))
	data, err = os.ReadFile(bmp)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data))
}

func TestSpaceHelpUnknown(t *testing.T) {
	r, out := newTestRunner(t)

	require.NoError(t, r.run([]string{"space"}))
	assert.True(t, strings.HasPrefix(out.String(), "tengine(tspace=tspace(orientation=up"))

	out.Reset()
	require.NoError(t, r.run([]string{"help"}))
	assert.Contains(t, out.String(), "locate <x> <y>")

	assert.ErrorIs(t, r.run(nil), errUsage)
	assert.ErrorIs(t, r.run([]string{"teleport"}), errUsage)
}
