package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONReporter_GenerateReport_Pretty(t *testing.T) {
	r := NewJSONReporter(true)

	data, err := r.GenerateReport(makeReport(t))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
	assert.True(t, json.Valid(data))
}

func TestJSONReporter_GenerateReport_Compact(t *testing.T) {
	r := NewJSONReporter(false)

	data, err := r.GenerateReport(makeReport(t))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.NotContains(t, string(data), "\n  ")

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Fields, 3)
	assert.Equal(t, "type", decoded.Fields[0].Failures[0].Constraint)
}

func TestJSONReporter_GenerateMasterSummary(t *testing.T) {
	r := NewJSONReporter(true)
	reports := []*Report{makeReport(t), makeValidReport(t, "address")}

	data, err := r.GenerateMasterSummary(reports)
	require.NoError(t, err)

	var summary jsonMasterSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.TotalForms)
	assert.Equal(t, 1, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
	assert.Len(t, summary.Reports, 2)
}

func TestJSONReporter_WriteReport(t *testing.T) {
	r := NewJSONReporter(false)

	var buf bytes.Buffer
	require.NoError(t, r.WriteReport(&buf, makeReport(t)))
	assert.True(t, json.Valid(buf.Bytes()))
	assert.Contains(t, buf.String(), `"form":"signup"`)
}
