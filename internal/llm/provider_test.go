package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteJSON(t *testing.T) {
	mock := &MockProvider{Responses: []string{`{"name": "widget", "count": 3}`}}

	var dest struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	err := CompleteJSON(context.Background(), mock, Request{Prompt: "describe"}, &dest)
	require.NoError(t, err)
	assert.Equal(t, "widget", dest.Name)
	assert.Equal(t, 3, dest.Count)

	// JSON mode is forced on
	require.Len(t, mock.Calls, 1)
	assert.True(t, mock.Calls[0].JSONMode)
}

func TestCompleteJSONStripsFences(t *testing.T) {
	mock := &MockProvider{Responses: []string{"```json\n{\"ok\": true}\n```"}}

	var dest struct {
		OK bool `json:"ok"`
	}
	err := CompleteJSON(context.Background(), mock, Request{}, &dest)
	require.NoError(t, err)
	assert.True(t, dest.OK)
}

func TestCompleteJSONRetriesOnceThenSucceeds(t *testing.T) {
	mock := &MockProvider{Responses: []string{"not json at all", `{"ok": true}`}}

	var dest struct {
		OK bool `json:"ok"`
	}
	err := CompleteJSON(context.Background(), mock, Request{}, &dest)
	require.NoError(t, err)
	assert.True(t, dest.OK)
	assert.Len(t, mock.Calls, 2)
}

func TestCompleteJSONGivesUpAfterTwoAttempts(t *testing.T) {
	boom := errors.New("boom")
	mock := &MockProvider{Err: boom}

	var dest map[string]interface{}
	err := CompleteJSON(context.Background(), mock, Request{}, &dest)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mock.Calls, 2)
}

func TestCompleteJSONNilProvider(t *testing.T) {
	var dest map[string]interface{}
	err := CompleteJSON(context.Background(), nil, Request{}, &dest)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, "", stripFences("   "))
}
