package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	assert.Empty(t, chunk([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}}, chunk([]int{1, 2, 3}, 3))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunk([]int{1, 2, 3, 4, 5}, 2))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS interview_sessions")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS questions")
}

func TestMarshalResponses_NilIsEmptyArray(t *testing.T) {
	b, err := marshalResponses(nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}
