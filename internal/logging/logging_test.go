package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	log.WithField("key", "@GoMarketPlace:cart").Debug("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "debug", entry["severity"])
	assert.Equal(t, "@GoMarketPlace:cart", entry["key"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "TEXT", &buf)

	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log := New("chatty", "json", nil)
	assert.Equal(t, logrus.InfoLevel, log.Level)
}
