package tasks

import (
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/redis"
	"errors"
	"time"
)

const TablesDB redis.DB = 1

// TableCache stores trained frequency tables keyed by a digest of the
// training file, so repeated jobs over the same corpus skip training.
type TableCache struct {
	client redis.Client
	ttl    time.Duration
}

func tableKey(digest string) string {
	return "freqtable:" + digest
}

// Get returns the cached table, or ok == false when there is none.
func (cache TableCache) Get(digest string) (table *pos.FrequencyTable, ok bool, err error) {
	table = &pos.FrequencyTable{}
	err = cache.client.Get(tableKey(digest), table)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return table, true, nil
}

func (cache TableCache) Put(digest string, table *pos.FrequencyTable) error {
	return cache.client.Set(tableKey(digest), table, cache.ttl)
}
