package worker

import (
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/tasks"
	"fmt"
)

type redisTransactions interface {
	getJobTask(redisKey string) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task, outcome runOutcome) error
	getCachedTable(digest string) (*pos.FrequencyTable, bool, error)
	cacheTable(digest string, table *pos.FrequencyTable) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) getJobTask(redisKey string) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.Get(redisKey)
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Jobs.Update(task.redisKey, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusStarted
		job.Attempts += 1
		job.StartedAt = getFormattedNow()
		job.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task) error {
	return wrapper.tasksClient.Jobs.Update(task.redisKey, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusCanceled
		job.CompletedAt = getFormattedNow()
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Jobs.Update(task.redisKey, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusCompletedFailure
		job.CompletedAt = getFormattedNow()
		job.ErrorMessages = append(
			job.ErrorMessages,
			fmt.Sprintf("Task has exceeded retries. (Attempts: %d, max retries: %d )", job.Attempts, maxRetries),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Jobs.Update(task.redisKey, func(job *tasks.JobTask) {
		job.Status = tasks.TaskStatusFailed
		job.CompletedAt = getFormattedNow()
		job.ErrorMessages = append(job.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task, outcome runOutcome) error {
	return wrapper.tasksClient.Jobs.Update(task.redisKey, func(job *tasks.JobTask) {
		if !job.Status.Complete() {
			job.Status = tasks.TaskStatusCompletedSuccess
		}
		job.CompletedAt = getFormattedNow()
		job.ResultsFileKey = outcome.resultsFileKey
		job.Accuracy = outcome.accuracy
	})
}

func (wrapper *redisClientWrapper) getCachedTable(digest string) (*pos.FrequencyTable, bool, error) {
	return wrapper.tasksClient.Tables.Get(digest)
}

func (wrapper *redisClientWrapper) cacheTable(digest string, table *pos.FrequencyTable) error {
	return wrapper.tasksClient.Tables.Put(digest, table)
}
