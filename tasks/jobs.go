package tasks

import (
	"text2phenotype.com/postag/redis"
)

const JobsDB redis.DB = 0

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

type WorkType string

const (
	WorkTypeTag   WorkType = "tag"
	WorkTypeScore WorkType = "score"
)

// JobTask describes one tagging or scoring job. File keys point into the
// object storage bucket.
type JobTask struct {
	WorkType        WorkType   `json:"work_type"`
	Mode            string     `json:"mode,omitempty"`
	TrainingFileKey string     `json:"training_file_key,omitempty"`
	TestFileKey     string     `json:"test_file_key,omitempty"`
	TaggedInput     bool       `json:"tagged_input,omitempty"`
	Encoding        string     `json:"encoding,omitempty"`
	TaggedFileKey   string     `json:"tagged_file_key,omitempty"`
	KeyFileKey      string     `json:"key_file_key,omitempty"`
	ResultsFileKey  string     `json:"results_file_key,omitempty"`
	Status          TaskStatus `json:"status"`
	Attempts        int        `json:"attempts"`
	StartedAt       *string    `json:"started_at"`
	CompletedAt     *string    `json:"completed_at"`
	Accuracy        *float64   `json:"accuracy,omitempty"`
	ErrorMessages   []string   `json:"error_messages"`
	UserCanceled    bool       `json:"user_canceled"`
}

type JobTasks struct {
	client redis.Client
}

func (tasks JobTasks) Get(redisKey string) (*JobTask, error) {
	var task JobTask
	if err := tasks.client.Get(redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks JobTasks) Update(redisKey string, updateFunc func(task *JobTask)) error {
	var task JobTask
	return tasks.client.Update(redisKey, &task, func() { updateFunc(&task) })
}
