package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	first := makeReport(t)
	require.NoError(t, AppendToHistory(path, first))
	require.NoError(t, AppendToHistory(path, makeValidReport(t, "address")))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e HistoricalEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, first.ID, entries[0].ReportID)
	assert.Equal(t, "signup", entries[0].Form)
	assert.Equal(t, "invalid", entries[0].Status)
	assert.Equal(t, 2, entries[0].Failures)
	assert.Equal(t, "15ms", entries[0].Duration)
	assert.Equal(t, "valid", entries[1].Status)
}

func TestAppendToHistory_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "history.jsonl")
	err := AppendToHistory(path, makeValidReport(t, "address"))
	assert.Error(t, err)
}
