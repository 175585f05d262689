package conversation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playedSession(t *testing.T) *Session {
	t.Helper()
	c := NewController(DefaultConfig())
	s := newTestSession()
	s.Progress.Understanding = 80
	for i, msg := range []string{insightful, "I'm stuck, can I get a hint?", "```go\nreturn nil\n```"} {
		now := t0.Add(time.Duration(i+1) * time.Minute)
		d := c.Decide(s, msg)
		c.Apply(s, msg, d, now)
		c.Record(s, RoleAssistant, Guidance(s, d), now)
	}
	require.NoError(t, s.Check())
	return s
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := playedSession(t)

	data, err := Export(s, t0.Add(time.Hour))
	require.NoError(t, err)

	got, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestExportImport_KeepsHintsShape(t *testing.T) {
	for _, hints := range [][]string{nil, {}, {"Sort first."}} {
		s := newTestSession()
		s.Problem.Hints = hints

		data, err := Export(s, t0)
		require.NoError(t, err)
		got, err := Import(data)
		require.NoError(t, err)
		assert.Equal(t, hints == nil, got.Problem.Hints == nil)
		assert.Equal(t, s, got)
	}
}

func TestExport_SelfDescribing(t *testing.T) {
	data, err := Export(playedSession(t), t0)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, ExportKind, raw["kind"])
	assert.EqualValues(t, ExportVersion, raw["version"])

	sess := raw["session"].(map[string]any)
	for _, key := range []string{"problem", "conversation_history", "current_step", "user_progress"} {
		assert.Contains(t, sess, key)
	}
	problem := sess["problem"].(map[string]any)
	assert.Equal(t, "medium", problem["difficulty"])
}

func TestImport_Rejects(t *testing.T) {
	valid, err := Export(playedSession(t), t0)
	require.NoError(t, err)

	mutate := func(f func(doc map[string]any)) []byte {
		var doc map[string]any
		require.NoError(t, json.Unmarshal(valid, &doc))
		f(doc)
		b, err := json.Marshal(doc)
		require.NoError(t, err)
		return b
	}
	session := func(doc map[string]any) map[string]any { return doc["session"].(map[string]any) }

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"not json", []byte("{"), ErrUnsupportedExport},
		{"wrong kind", mutate(func(d map[string]any) { d["kind"] = "other" }), ErrUnsupportedExport},
		{"future version", mutate(func(d map[string]any) { d["version"] = ExportVersion + 1 }), ErrUnsupportedExport},
		{"no session", mutate(func(d map[string]any) { delete(d, "session") }), ErrInvalidSession},
		{"unknown step", mutate(func(d map[string]any) {
			session(d)["current_step"].(map[string]any)["step_type"] = "celebration"
		}), ErrInvalidSession},
		{"progress out of range", mutate(func(d map[string]any) {
			session(d)["user_progress"].(map[string]any)["understanding"] = 140
		}), ErrInvalidSession},
		{"history ahead of step", mutate(func(d map[string]any) {
			session(d)["current_step"].(map[string]any)["step_number"] = 1
			hist := session(d)["conversation_history"].([]any)
			hist[len(hist)-1].(map[string]any)["step_number"] = 2
		}), ErrInvalidSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.data)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExport_NilSession(t *testing.T) {
	_, err := Export(nil, t0)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
