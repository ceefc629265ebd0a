package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)
	buf := new(bytes.Buffer)
	require.NoError(t, Init(Options{Output: buf, Level: "debug", Format: "json"}))
	assert.True(t, IsDebug())

	WithNamespace("render").Debug("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "render", line["nspace"])
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "debug", line["level"])

	require.NoError(t, Init(Options{Output: buf, Level: "info"}))
	assert.False(t, IsDebug())
}

func TestInitBadLevel(t *testing.T) {
	assert.Error(t, Init(Options{Level: "loud"}))
}

func TestLeveledFields(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Init(Options{Output: buf, Level: "info", Format: "json"}))

	Leveled{Entry: WithNamespace("http")}.Warn("retrying", "url", "http://x", "attempt", 2, "dangling")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http://x", line["url"])
	assert.Equal(t, 2.0, line["attempt"])
	assert.Equal(t, "warning", line["level"])
}
