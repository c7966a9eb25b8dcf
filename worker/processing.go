package worker

import (
	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/tasks"
	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery   *amqp.Delivery
	job        *tasks.JobTask
	message    *Message
	redisKey   string
	taskLogger *zerolog.Logger
}

// runOutcome is what a successful run records on the job.
type runOutcome struct {
	resultsFileKey string
	accuracy       *float64
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	task, err := worker.createTask(delivery)
	rejectLogger := worker.workerLogger.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		rejectLogger.Err(err).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.notifyResults(task, *task.message); err != nil {
		task.taskLogger.Err(err).Msg("Got error while sending message to results queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.taskLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.taskLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	job, err := worker.redis.getJobTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query job task for message, got error %w", err)
	}
	switch job.WorkType {
	case tasks.WorkTypeTag, tasks.WorkTypeScore:
	default:
		return nil, fmt.Errorf("unsupported work type %q", job.WorkType)
	}
	taskLogger := worker.workerLogger.With().
		Str("tid", message.RedisKey).
		Str("work_type", string(job.WorkType)).
		Logger()
	return &Task{
		delivery:   delivery,
		job:        job,
		redisKey:   message.RedisKey,
		message:    &message,
		taskLogger: &taskLogger,
	}, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.taskLogger.Err(err).Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.taskLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update job task: %w", err)
	}
	outcome, err := worker.runPipeline(task)
	if err != nil {
		task.taskLogger.Err(err).Msg("Got error while running pipeline")
		return worker.redis.onTaskFailedWithError(task, err)
	}
	task.taskLogger.Info().Str("results_file_key", outcome.resultsFileKey).Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task, outcome); err != nil {
		task.taskLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	job := task.job
	if job.Status.Complete() {
		task.taskLogger.Info().Msg("Task is already done (might indicate issue acking message with RMQ)")
		return false, nil
	}
	if job.UserCanceled {
		task.taskLogger.Info().Msg("Job was canceled, no need to perform this task")
		return false, worker.redis.onTaskCancelled(task)
	}
	if job.Attempts >= worker.config.TaskMaxRetries {
		task.taskLogger.Info().Msg("Task has exceeded retries")
		return false, worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
	}
	return true, nil
}

func (worker *Worker) runPipeline(task *Task) (outcome runOutcome, err error) {
	defer utils.RecoverWithError(&err)
	task.taskLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.job.Attempts+1)

	request, err := worker.buildRequest(task)
	if err != nil {
		return outcome, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), worker.config.TaskTimeout)
	defer cancel()

	response, ok := <-worker.ppln(ctx, request)
	if !ok {
		return outcome, errors.New("pipeline channel was closed before returning anything")
	}
	if response.Err != nil {
		return outcome, response.Err
	}

	outcome.resultsFileKey = getResultsFileKey(task)
	task.taskLogger.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.upload(response.Output, outcome.resultsFileKey); err != nil {
		return outcome, fmt.Errorf("failed to save results to s3: %w", err)
	}
	if response.Result != nil {
		accuracy := response.Result.Accuracy
		outcome.accuracy = &accuracy
	}
	return outcome, nil
}

func (worker *Worker) buildRequest(task *Task) (pipeline.Request, error) {
	job := task.job
	opts := types.Options{Mode: pos.ModeBasic, Workers: worker.config.TagWorkers, TaggedInput: job.TaggedInput}
	var err error
	if opts.Encoding, err = corpus.ParseEncoding(job.Encoding); err != nil {
		return pipeline.Request{}, err
	}
	request := pipeline.Request{Tid: task.redisKey, Options: opts}

	switch job.WorkType {
	case tasks.WorkTypeScore:
		request.Kind = pipeline.KindScore
		if request.Tagged, err = worker.fetch(job.TaggedFileKey); err != nil {
			return request, err
		}
		if request.Key, err = worker.fetch(job.KeyFileKey); err != nil {
			return request, err
		}
	default:
		request.Kind = pipeline.KindTag
		if job.Mode != "" {
			if request.Options.Mode, err = pos.ParseMode(job.Mode); err != nil {
				return request, err
			}
		}
		if request.Table, err = worker.loadTable(task); err != nil {
			return request, err
		}
		if request.Test, err = worker.fetch(job.TestFileKey); err != nil {
			return request, err
		}
	}
	return request, nil
}

// loadTable returns the frequency table for the job's training file, from
// the cache when an identical corpus was trained before. Cache errors are
// logged and never fail the task.
func (worker *Worker) loadTable(task *Task) (*pos.FrequencyTable, error) {
	training, err := worker.fetch(task.job.TrainingFileKey)
	if err != nil {
		return nil, err
	}
	enc, err := corpus.ParseEncoding(task.job.Encoding)
	if err != nil {
		return nil, err
	}
	digest := tableDigest(enc, training)
	table, ok, err := worker.redis.getCachedTable(digest)
	if err != nil {
		task.taskLogger.Warn().Err(err).Str("digest", digest).Msg("Could not read cached frequency table")
	}
	if ok {
		task.taskLogger.Info().Str("digest", digest).Int("words", table.Len()).Msg("Using cached frequency table")
		return table, nil
	}

	if table, err = pipeline.Train(training, enc); err != nil {
		return nil, err
	}
	task.taskLogger.Info().Str("digest", digest).Int("words", table.Len()).Msg("Trained frequency table")
	if err = worker.redis.cacheTable(digest, table); err != nil {
		task.taskLogger.Warn().Err(err).Str("digest", digest).Msg("Could not cache frequency table")
	}
	return table, nil
}

// tableDigest keys a trained table by the training bytes and the decoding
// they were read with.
func tableDigest(enc corpus.Encoding, training []byte) string {
	return utils.HashKey([]byte(string(enc)+"\x00"), training)
}

func (worker *Worker) fetch(key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("job task is missing a file key")
	}
	data, err := worker.s3.download(key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from s3: %w", key, err)
	}
	return data, nil
}
