package tasks

import (
	"text2phenotype.com/postag/redis"
	"github.com/kelseyhightower/envconfig"
	"time"
)

type Config struct {
	TableCacheTTL time.Duration `envconfig:"POSTAG_TABLE_CACHE_TTL" default:"24h"`
}

type Client struct {
	Jobs   JobTasks
	Tables TableCache
}

// NewClient is a preferred way for working with job tasks and cached tables
func NewClient() (Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}
	jobsRedisClient, err := redis.NewClient(JobsDB)
	if err != nil {
		return Client{}, err
	}
	tablesRedisClient, err := redis.NewClient(TablesDB)
	if err != nil {
		_ = jobsRedisClient.Close()
		return Client{}, err
	}
	return Client{
		Jobs:   JobTasks{client: jobsRedisClient},
		Tables: TableCache{client: tablesRedisClient, ttl: cfg.TableCacheTTL},
	}, nil
}

func (client *Client) Close() {
	_ = client.Jobs.client.Close()
	_ = client.Tables.client.Close()
}
