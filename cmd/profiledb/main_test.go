package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/profiledb"
	"github.com/poiesic/profiledb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const (
	aliceJSON = `{"personal_info": {"name": "Alice"},
		"work_experience": [{"company": "Acme", "position": "Data Engineer", "responsibilities": ["Python data pipeline"]}]}`
	bobJSON = `{"work_experience": [{"company": "Beta", "position": "Backend Developer", "responsibilities": ["Java backend API"]}],
		"skills": {"programming": ["Java", "Spring"]}}`
)

// run executes the CLI against a keyword-only index rooted at root.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	base := []string{"profiledb",
		"--config", filepath.Join(root, "absent.toml"),
		"--root", root,
		"--provider", "none",
		"--log-level", "error",
	}
	err := newApp(&out).Run(append(base, args...))
	return out.String(), err
}

func seedProfiles(t *testing.T) (root string) {
	t.Helper()
	root = t.TempDir()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.json"), []byte(aliceJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.json"), []byte(bobJSON), 0o644))

	out, err := run(t, root, "sync", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    alice: 2 entries")
	assert.Contains(t, out, "ok    bob: 2 entries")
	return root
}

func TestCommands(t *testing.T) {
	root := seedProfiles(t)

	t.Run("stats", func(t *testing.T) {
		out, err := run(t, root, "stats")
		require.NoError(t, err)
		var stats core.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &stats))
		assert.Equal(t, 4, stats.TotalEntries)
		assert.False(t, stats.VectorStoreAvailable)
	})

	t.Run("search", func(t *testing.T) {
		out, err := run(t, root, "search", "--json", "--mode", "keyword", "Java backend")
		require.NoError(t, err)
		var results []*core.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.Equal(t, "bob", r.Meta.ProfileName)
		}

		out, err = run(t, root, "search", "--profile", "alice", "Java backend")
		require.NoError(t, err)
		assert.Contains(t, out, "no results")

		out, err = run(t, root, "search", "--json", "--mode", "fuzzy", "Java backend")
		require.NoError(t, err)
		results = nil
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.Equal(t, core.MethodHybrid, r.SearchMethod, "unknown modes run as hybrid")
		}

		out, err = run(t, root, "search", "--category", "work_experience", "Python")
		require.NoError(t, err)
		assert.Contains(t, out, "SCORE")
		assert.Contains(t, out, "alice")
	})

	t.Run("get", func(t *testing.T) {
		out, err := run(t, root, "get", "1")
		require.NoError(t, err)
		var entry core.EntryWithData
		require.NoError(t, json.Unmarshal([]byte(out), &entry))
		assert.Equal(t, core.CategoryWorkExperience, entry.Meta.Category)
		assert.Contains(t, string(entry.Data), "Acme")

		_, err = run(t, root, "get", "99")
		assert.ErrorIs(t, err, profiledb.ErrEntryNotFound)

		_, err = run(t, root, "get", "first")
		assert.Error(t, err)
	})

	t.Run("summary and context", func(t *testing.T) {
		out, err := run(t, root, "summary", "alice")
		require.NoError(t, err)
		var summary core.ProfileSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, 2, summary.TotalEntries)

		_, err = run(t, root, "summary", "carol")
		assert.ErrorIs(t, err, profiledb.ErrProfileNotFound)

		out, err = run(t, root, "context", "--agent", "jd_analyst", "bob")
		require.NoError(t, err)
		var agentCtx core.AgentContext
		require.NoError(t, json.Unmarshal([]byte(out), &agentCtx))
		assert.Equal(t, "jd_analyst", agentCtx.AgentType)
		assert.False(t, agentCtx.VectorDBEnabled)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := run(t, root, "search", "--category", "hobbies", "python")
		assert.ErrorIs(t, err, core.ErrInvalidCategory)
		_, err = run(t, root, "search")
		assert.Error(t, err)
		_, err = run(t, root, "sync")
		assert.Error(t, err)
		_, err = run(t, root, "reindex")
		assert.ErrorIs(t, err, profiledb.ErrEmbedderRequired)
	})

	t.Run("remove and compact", func(t *testing.T) {
		out, err := run(t, root, "remove", "bob")
		require.NoError(t, err)
		assert.Contains(t, out, "removed 2 entries of bob")

		out, err = run(t, root, "compact")
		require.NoError(t, err)
		assert.Contains(t, out, "2 remain")
	})
}

func TestSyncReportsFailures(t *testing.T) {
	root := t.TempDir()
	dir := t.TempDir()
	good := filepath.Join(dir, "alice.json")
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(good, []byte(aliceJSON), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"work_experience": [`), 0o644))

	out, err := run(t, root, "sync", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 profiles failed")
	assert.Contains(t, out, "ok    alice")
	assert.Contains(t, out, "FAIL  broken")

	out, err = run(t, root, "sync", "--name", "Alice Kim", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    Alice Kim: 2 entries")

	_, err = run(t, root, "sync", "--name", "x", good, bad)
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	newLoggerApp := func(action cli.ActionFunc) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: action,
		}
	}
	noop := func(c *cli.Context) error { return nil }

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newLoggerApp(noop).Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newLoggerApp(noop).Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newLoggerApp(func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}).Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestAppCommands(t *testing.T) {
	app := newApp(&bytes.Buffer{})
	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"sync", "remove", "search", "get", "stats", "summary", "context", "compact", "reindex", "serve"}, names)
}
