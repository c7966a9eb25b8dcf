package worker

import (
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/tasks"
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln   pipeline.Pipeline
	config pipelineMockConfig
	calls  pipelineCall
}

type pipelineMockConfig struct {
	fail       bool
	closeEmpty bool
	real       bool
	output     string
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config    redisMockConfig
	calls     redisMockCalls
	completed runOutcome
	cached    map[string]*pos.FrequencyTable
}

type redisMockConfig struct {
	getJobTask            withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
	getCachedTable        withValue
	cacheTable            failingMethod
}

type redisMockCalls struct {
	getJobTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
	getCachedTable        bool
	cacheTable            bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

type rmqMockConfig struct {
	notifyResults       failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	notifyResults       bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config   s3MockConfig
	calls    s3MockCalls
	uploaded map[string][]byte
}

type s3MockConfig struct {
	files    map[string][]byte
	download failingMethod
	upload   failingMethod
}

type s3MockCalls struct {
	download bool
	upload   bool
}

var defaultFiles = map[string][]byte{
	"corpora/train.txt":  []byte("The/DT\ndog/NN\nruns/VBZ\n"),
	"corpora/test.txt":   []byte("The\ndog\nPhiladelphia\n"),
	"corpora/tagged.txt": []byte("The/DT\ndog/NN\n"),
	"corpora/key.txt":    []byte("The/DT\ndog/VB\n"),
}

var defaultJob = tasks.JobTask{
	WorkType:        tasks.WorkTypeTag,
	TrainingFileKey: "corpora/train.txt",
	TestFileKey:     "corpora/test.txt",
	Status:          tasks.TaskStatusSubmitted,
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	realPipeline := pipeline.New()
	mock.ppln = func(ctx context.Context, request pipeline.Request) <-chan pipeline.Response {
		mock.calls.pipeline = true
		if mock.config.real {
			return realPipeline(ctx, request)
		}
		ch := make(chan pipeline.Response, 1)
		switch {
		case mock.config.closeEmpty:
		case mock.config.fail:
			ch <- pipeline.Response{Err: errors.New("pipeline failed")}
		default:
			ch <- pipeline.Response{Output: []byte(mock.config.output)}
		}
		close(ch)
		return ch
	}
	return &mock
}

func (mock *redisMock) getJobTask(redisKey string) (*tasks.JobTask, error) {
	mock.calls.getJobTask = true
	if mock.config.getJobTask.fail {
		return nil, errors.New("failed to get job task")
	}
	switch value := mock.config.getJobTask.returnedValue.(type) {
	case tasks.JobTask:
		return &value, nil
	default:
		job := defaultJob
		return &job, nil
	}
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update job task on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(task *Task) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update job task on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update job task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update job task on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task, outcome runOutcome) error {
	mock.calls.onTaskComplete = true
	mock.completed = outcome
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update job task on complete")
	}
	return nil
}

func (mock *redisMock) getCachedTable(digest string) (*pos.FrequencyTable, bool, error) {
	mock.calls.getCachedTable = true
	if mock.config.getCachedTable.fail {
		return nil, false, errors.New("failed to read table cache")
	}
	if table, ok := mock.config.getCachedTable.returnedValue.(*pos.FrequencyTable); ok {
		return table, true, nil
	}
	table, ok := mock.cached[digest]
	return table, ok, nil
}

func (mock *redisMock) cacheTable(digest string, table *pos.FrequencyTable) error {
	mock.calls.cacheTable = true
	if mock.config.cacheTable.fail {
		return errors.New("failed to write table cache")
	}
	if mock.cached == nil {
		mock.cached = make(map[string]*pos.FrequencyTable)
	}
	mock.cached[digest] = table
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getConsumerErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getPublisherErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) notifyResults(task *Task, message Message) error {
	mock.calls.notifyResults = true
	if mock.config.notifyResults.fail {
		return errors.New("failed to notify results queue")
	}
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) download(key string) ([]byte, error) {
	mock.calls.download = true
	if mock.config.download.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	files := mock.config.files
	if files == nil {
		files = defaultFiles
	}
	data, ok := files[key]
	if !ok {
		return nil, errors.New("mock: no such key")
	}
	return data, nil
}

func (mock *s3Mock) upload(data []byte, key string) error {
	mock.calls.upload = true
	if mock.config.upload.fail {
		return errors.New("failed to upload results")
	}
	if mock.uploaded == nil {
		mock.uploaded = make(map[string][]byte)
	}
	mock.uploaded[key] = data
	return nil
}
