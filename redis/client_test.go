package redis

import (
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestMergeDocumentKeepsForeignFields(t *testing.T) {
	raw := []byte(`{"status":"submitted","attempts":0,"owner":"sequencer","extra":{"a":1}}`)
	before := []byte(`{"status":"submitted","attempts":0}`)
	after := []byte(`{"status":"started","attempts":1}`)

	merged, err := MergeDocument(raw, before, after)
	require.NoError(t, err)
	require.True(t, jsonpatch.Equal(
		[]byte(`{"status":"started","attempts":1,"owner":"sequencer","extra":{"a":1}}`),
		merged,
	), string(merged))
}

func TestMergeDocumentNoChanges(t *testing.T) {
	raw := []byte(`{"status":"started","owner":"sequencer"}`)
	doc := []byte(`{"status":"started"}`)

	merged, err := MergeDocument(raw, doc, doc)
	require.NoError(t, err)
	require.JSONEq(t, string(raw), string(merged))
}

func TestMergeDocumentRemovesNulledField(t *testing.T) {
	raw := []byte(`{"completed_at":"2020-01-01","owner":"sequencer"}`)
	before := []byte(`{"completed_at":"2020-01-01"}`)
	after := []byte(`{"completed_at":null}`)

	merged, err := MergeDocument(raw, before, after)
	require.NoError(t, err)
	require.JSONEq(t, `{"owner":"sequencer"}`, string(merged))
}

func TestMergeDocumentInvalidJSON(t *testing.T) {
	_, err := MergeDocument([]byte(`{}`), []byte(`{`), []byte(`{}`))
	require.Error(t, err)
}
