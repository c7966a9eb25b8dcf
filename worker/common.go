package worker

import (
	"text2phenotype.com/postag/tasks"
	"fmt"
	"path"
	"time"
)

func getResultsFileKey(task *Task) string {
	suffix := "tagged.txt"
	if task.job.WorkType == tasks.WorkTypeScore {
		suffix = "scores.txt"
	}
	return path.Join(
		"processed",
		"jobs",
		task.redisKey,
		fmt.Sprintf("%s.%s", task.redisKey, suffix),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
