package tasks

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTaskStatusComplete(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusCompletedSuccess, TaskStatusCompletedFailure, TaskStatusCanceled} {
		require.True(t, s.Complete(), s)
	}
	for _, s := range []TaskStatus{TaskStatusSubmitted, TaskStatusStarted, TaskStatusFailed} {
		require.False(t, s.Complete(), s)
	}
}

func TestJobTaskDecodesSubmittedDocument(t *testing.T) {
	doc := `{
		"work_type": "tag",
		"mode": "enhanced",
		"training_file_key": "corpora/pos-train.txt",
		"test_file_key": "corpora/pos-test.txt",
		"status": "submitted",
		"attempts": 0,
		"started_at": null,
		"completed_at": null,
		"error_messages": [],
		"submitted_by": "sequencer"
	}`
	var task JobTask
	require.NoError(t, json.Unmarshal([]byte(doc), &task))
	require.Equal(t, WorkTypeTag, task.WorkType)
	require.Equal(t, "corpora/pos-train.txt", task.TrainingFileKey)
	require.Nil(t, task.StartedAt)
	require.Nil(t, task.Accuracy)
}
