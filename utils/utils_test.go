package utils

import (
	"errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestHashBytes(t *testing.T) {
	require.Equal(t, HashBytes([]byte("dog/NN\n")), HashBytes([]byte("dog/"), []byte("NN\n")))
	require.NotEqual(t, HashBytes([]byte("dog/NN\n")), HashBytes([]byte("dog/VB\n")))
}

func TestHashKey(t *testing.T) {
	key := HashKey([]byte("the/DT\n"))
	require.Len(t, key, 16)
	require.Equal(t, key, HashKey([]byte("the/DT\n")))
	require.Len(t, HashKey(), 16)
}

func TestRecoverWithError(t *testing.T) {
	run := func() (err error) {
		defer RecoverWithError(&err)
		panic("boom")
	}
	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")

	ok := func() (err error) {
		defer RecoverWithError(&err)
		return errors.New("plain")
	}
	require.EqualError(t, ok(), "plain")
}
