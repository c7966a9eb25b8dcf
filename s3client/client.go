package s3client

import (
	"text2phenotype.com/postag/logger"
	"bytes"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"sync"
)

type EnvironmentConfig struct {
	BucketName  string `envconfig:"POSTAG_STORAGE_BUCKET" required:"true"`
	Env         string `envconfig:"POSTAG_ENV" default:"prod"`
	Region      string `envconfig:"POSTAG_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"POSTAG_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"POSTAG_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"POSTAG_AWS_ACCESS_KEY" default:""`
}

// Client reads corpora from and writes results to one bucket. The AWS
// session is re-created once when a request fails.
type Client struct {
	env  EnvironmentConfig
	mu   sync.Mutex
	sess *session.Session
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := &Client{env: env}
	if _, err := client.refreshSession(); err != nil {
		return nil, err
	}
	return client, nil
}

func (client *Client) Upload(data []byte, key string) error {
	params := &s3manager.UploadInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
	}
	return client.withSession(func(sess *session.Session) error {
		params.Body = bytes.NewReader(data)
		uploader := s3manager.NewUploader(sess.Copy(&aws.Config{Logger: sdkLog(key)}))
		clientLogger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Uploading the file")
		_, err := uploader.Upload(params)
		return err
	})
}

func (client *Client) Download(key string) ([]byte, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
	}
	var data []byte
	err := client.withSession(func(sess *session.Session) error {
		downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{Logger: sdkLog(key)}))
		buf := aws.NewWriteAtBuffer([]byte{})
		size, err := downloader.Download(buf, params)
		if err != nil {
			return err
		}
		clientLogger.Debug().Str("key", key).Int64("bytes", size).Msg("Downloaded file")
		data = buf.Bytes()
		return nil
	})
	return data, err
}

func (client *Client) Close() {
	client.mu.Lock()
	client.sess = nil
	client.mu.Unlock()
}

func (client *Client) withSession(do func(sess *session.Session) error) error {
	client.mu.Lock()
	sess := client.sess
	client.mu.Unlock()
	if sess == nil {
		return errors.New("s3 client is closed")
	}
	err := do(sess)
	if err == nil {
		return nil
	}
	clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
	sess, refreshErr := client.refreshSession()
	if refreshErr != nil {
		return fmt.Errorf("%v (session refresh failed: %w)", err, refreshErr)
	}
	return do(sess)
}

// refreshSession prefers the instance role and falls back to credentials
// from the environment.
func (client *Client) refreshSession() (*session.Session, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	sess, err := session.NewSession(client.instanceConfig())
	if err == nil {
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err == nil {
			clientLogger.Info().Msg("S3 session successfully initialized using EC2")
			client.sess = sess
			return sess, nil
		}
	}
	clientLogger.Info().Msg("Could not initialize S3 session using EC2, trying env credentials")

	sess, err = session.NewSession(client.envConfig())
	if err == nil {
		_, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{})
	}
	if err != nil {
		client.sess = nil
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, fmt.Errorf("could not initialize S3 session: %w", err)
	}
	clientLogger.Info().Msg("S3 session successfully initialized using env credentials")
	client.sess = sess
	return sess, nil
}

func (client *Client) instanceConfig() *aws.Config {
	return &aws.Config{
		Region:     aws.String(client.env.Region),
		MaxRetries: aws.Int(4),
	}
}

func (client *Client) envConfig() *aws.Config {
	cfg := aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(4).
		WithCredentials(credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, ""))

	if client.env.Env == "dev" && len(client.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}

type s3Logger struct {
	postagLogger zerolog.Logger
}

func sdkLog(key string) *s3Logger {
	return &s3Logger{sdkLogger.With().Str("key", key).Logger()}
}

func (logger *s3Logger) Log(v ...interface{}) {
	logger.postagLogger.Debug().Msg(fmt.Sprint(v...))
}
