package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMasterSummary(t *testing.T) {
	summary := BuildMasterSummary(
		[]*Report{makeReport(t), makeValidReport(t, "address")},
	)

	assert.Contains(t, summary.ID, "summary_")
	assert.Equal(t, 2, summary.TotalForms)
	assert.Equal(t, 1, summary.ValidForms)
	assert.Equal(t, 1, summary.InvalidForms)
	assert.InDelta(t, 0.5, summary.ValidRate, 0.001)
	require.Len(t, summary.Forms, 2)
	assert.Equal(t, 2, summary.Forms[0].FieldsFailing)
	assert.Equal(t, 3, summary.Forms[0].FieldsTotal)
}

func TestBuildMasterSummary_Empty(t *testing.T) {
	summary := BuildMasterSummary(nil)
	assert.Zero(t, summary.TotalForms)
	assert.Zero(t, summary.ValidRate)
}

func TestSaveMasterSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	summary := BuildMasterSummary([]*Report{makeReport(t)})

	require.NoError(t, SaveMasterSummary(summary, dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	md, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(md), "| signup | INVALID |")
}

func TestMarkdownReporter_WriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t,
		NewMarkdownReporter().WriteReport(&buf, makeReport(t)))

	out := buf.String()
	assert.Contains(t, out, "# Form: signup")
	assert.Contains(t, out, "**Status:** INVALID")
	assert.Contains(t, out, "| email | invalid | type | email | failed |")
	assert.Contains(t, out, "| nickname | invalid | minlength | 5 | failed |")
	assert.Contains(t, out, "| country | valid | - | - | - |")
}

func TestMarkdownReporter_GenerateMasterSummary(t *testing.T) {
	data, err := NewMarkdownReporter().GenerateMasterSummary(
		[]*Report{makeValidReport(t, "address")},
	)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| address | VALID |")
	assert.Contains(t, string(data), "| Valid Rate | 100% |")
}
