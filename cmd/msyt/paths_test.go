package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msyt/format"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func sortedJobs(jobs []job) []job {
	slices.SortFunc(jobs, func(a, b job) int {
		switch {
		case a.in < b.in:
			return -1
		case a.in > b.in:
			return 1
		default:
			return 0
		}
	})

	return jobs
}

func TestPlanJobs_File(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "Npc.msbt.zs")
	touch(t, in)

	t.Run("next to input", func(t *testing.T) {
		jobs, err := planJobs(in, "", extBinary, extText, "")
		require.NoError(t, err)
		require.Equal(t, []job{{in: in, out: filepath.Join(dir, "Npc.msyt")}}, jobs)
	})

	t.Run("explicit file", func(t *testing.T) {
		out := filepath.Join(dir, "custom", "name.msyt")
		jobs, err := planJobs(in, out, extBinary, extText, "")
		require.NoError(t, err)
		require.Equal(t, out, jobs[0].out)
	})

	t.Run("existing directory", func(t *testing.T) {
		outDir := filepath.Join(dir, "exported")
		require.NoError(t, os.MkdirAll(outDir, 0o755))

		jobs, err := planJobs(in, outDir, extBinary, extText, "")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(outDir, "Npc.msyt"), jobs[0].out)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := planJobs(filepath.Join(dir, "nope.msbt"), "", extBinary, extText, "")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestPlanJobs_Tree(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "ActorMsg", "Npc.msbt"))
	touch(t, filepath.Join(root, "ActorMsg", "Item.MSBT.zs"))
	touch(t, filepath.Join(root, "EventFlowMsg", "Intro.msbt.lz4"))
	touch(t, filepath.Join(root, "ActorMsg", "Npc.msyt"))
	touch(t, filepath.Join(root, "readme.txt"))

	t.Run("in place", func(t *testing.T) {
		jobs, err := planJobs(root, "", extBinary, extText, "")
		require.NoError(t, err)
		require.Equal(t, []job{
			{in: filepath.Join(root, "ActorMsg", "Item.MSBT.zs"), out: filepath.Join(root, "ActorMsg", "Item.msyt")},
			{in: filepath.Join(root, "ActorMsg", "Npc.msbt"), out: filepath.Join(root, "ActorMsg", "Npc.msyt")},
			{in: filepath.Join(root, "EventFlowMsg", "Intro.msbt.lz4"), out: filepath.Join(root, "EventFlowMsg", "Intro.msyt")},
		}, sortedJobs(jobs))
	})

	t.Run("mirrored with suffix", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out")
		jobs, err := planJobs(root, out, extText, extBinary, format.CompressionZstd.Suffix())
		require.NoError(t, err)
		require.Equal(t, []job{
			{in: filepath.Join(root, "ActorMsg", "Npc.msyt"), out: filepath.Join(out, "ActorMsg", "Npc.msbt.zs")},
		}, jobs)
	})
}

func TestOutputName(t *testing.T) {
	require.Equal(t, "a/Npc.msyt", outputName("a/Npc.msbt", extText, ""))
	require.Equal(t, "a/Npc.msyt", outputName("a/Npc.msbt.s2", extText, ""))
	require.Equal(t, "a/Npc.msbt.lz4", outputName("a/Npc.msyt", extBinary, ".lz4"))
	require.Equal(t, "noext.msbt", outputName("noext", extBinary, ""))
}

func TestParseCompression(t *testing.T) {
	tests := map[string]format.CompressionType{
		"":     format.CompressionNone,
		"none": format.CompressionNone,
		"ZSTD": format.CompressionZstd,
		"zs":   format.CompressionZstd,
		"s2":   format.CompressionS2,
		"lz4":  format.CompressionLZ4,
	}
	for name, want := range tests {
		got, err := parseCompression(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := parseCompression("gzip")
	require.Error(t, err)
}
