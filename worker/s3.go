package worker

import (
	"text2phenotype.com/postag/s3client"
)

type s3Transactions interface {
	download(key string) ([]byte, error)
	upload(data []byte, key string) error
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {
	wrapper.s3Client.Close()
}

func (wrapper *s3ClientWrapper) download(key string) ([]byte, error) {
	return wrapper.s3Client.Download(key)
}

func (wrapper *s3ClientWrapper) upload(data []byte, key string) error {
	return wrapper.s3Client.Upload(data, key)
}
