package privacy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentWriterFlush(t *testing.T) {
	w := NewDocumentWriter()
	require.NoError(t, w.ExportData(5, nil, ActivityExport{Name: "Week 1"}))
	require.NoError(t, w.ExportData(5, []string{SubcontextSubmission}, SubmissionExport{
		TimeCreated:  "a",
		TimeModified: "b",
		Examples:     []ExampleExport{{Name: "1", Checked: "Yes", Grade: 1}},
	}))
	require.NoError(t, w.ExportUserPreference(Component, "checkmark_perpage", "10", "per page"))

	dir := t.TempDir()
	require.NoError(t, w.Flush(dir))

	content, err := os.ReadFile(filepath.Join(dir, "context-5", "submission", "data.json"))
	require.NoError(t, err)
	var sub SubmissionExport
	require.NoError(t, json.Unmarshal(content, &sub))
	assert.Equal(t, "Yes", sub.Examples[0].Checked)

	content, err = os.ReadFile(filepath.Join(dir, "context-5", "data.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Week 1"}`, string(content))

	content, err = os.ReadFile(filepath.Join(dir, "preferences", Component+".json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"checkmark_perpage": {"value": "10", "description": "per page"}}`, string(content))
}

func TestFeedbackExportOmitsDisabledFields(t *testing.T) {
	content, err := json.Marshal(FeedbackExport{Feedback: "x", Grader: 3, Mailed: "No"})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &fields))
	for _, key := range []string{"grade", "attendance", "presentationgrade", "presentationfeedback"} {
		assert.NotContains(t, fields, key)
	}
	assert.Contains(t, fields, "grader")
}

func TestLists(t *testing.T) {
	contexts := NewContextList()
	contexts.Add(3, 1, 3, 0, 1)
	assert.Equal(t, []int64{1, 3}, contexts.IDs())

	users := NewUserList(8)
	users.Add(5, 5, 2)
	users.Add(2)
	assert.Equal(t, int64(8), users.ContextID())
	assert.Equal(t, []int64{2, 5}, users.IDs())
	assert.Equal(t, 2, users.Len())
}
