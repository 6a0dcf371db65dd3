package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"example.com/formintake/internal/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", "json", &buf)
	require.NoError(t, err)

	ctx := requestid.WithContext(context.Background(), "req-1")
	log.InfoContext(ctx, "csv imported", "inserted", 3, Error(errors.New("boom")))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "csv imported", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, float64(3), line["inserted"])
	assert.Equal(t, "boom", line["error"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", "text", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.With("component", "ingest").Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=ingest")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", "json", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestError_Nil(t *testing.T) {
	assert.Equal(t, "", Error(nil).Key)
}
