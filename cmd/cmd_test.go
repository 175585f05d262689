package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) map[string]any {
	t.Helper()
	out, err := run(t, append(args, "--json")...)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestRecordThenStats(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	m := runJSON(t, "record", "--db", db, "-u", "ana", "--domain", "graphs",
		"--questions", "10", "--correct", "7", "--time", "10m")
	assert.InDelta(t, 70.0, m["accuracy"], 0.001)

	m = runJSON(t, "stats", "--db", db, "-u", "ana")
	assert.EqualValues(t, 1, m["total_quizzes"])

	rec := runJSON(t, "recommend", "--db", db, "-u", "ana", "--domain", "graphs")
	assert.NotEmpty(t, rec["recommended_difficulty"])
}

func TestRecordRejectsUnknownDifficulty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := run(t, "record", "--db", db, "-u", "ana", "--domain", "graphs", "--difficulty", "brutal")
	assert.ErrorContains(t, err, "unknown difficulty")
}

func TestResetNeedsConfirmation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := run(t, "reset", "--db", db, "-u", "ana")
	assert.ErrorContains(t, err, "--yes")

	out, err := run(t, "reset", "--db", db, "-u", "ana", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Performance data for ana deleted.")
}

func TestSessionStartAndReply(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	s := runJSON(t, "session", "start", "--db", db, "-u", "ana", "--title", "Two Sum", "--difficulty", "easy")
	id, _ := s["id"].(string)
	require.NotEmpty(t, id)

	ex := runJSON(t, "session", "reply", "--db", db, id, "I'm", "stuck")
	decision, _ := ex["decision"].(map[string]any)
	assert.Equal(t, true, decision["should_provide_hint"])

	out, err := run(t, "session", "end", "--db", db, id)
	require.NoError(t, err)
	assert.Contains(t, out, "archived")
}
