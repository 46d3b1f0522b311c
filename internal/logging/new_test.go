package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SlogJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(Options{Level: "warn", Format: "json", Output: &buf})
	defer closer.Close()

	log.Info(context.Background(), "skip me")
	log.Warn(context.Background(), "keep me", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "skip me")
	assert.Contains(t, out, `"msg":"keep me"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNew_ZerologBackend(t *testing.T) {
	var buf bytes.Buffer
	log, closer := New(Options{Backend: "zerolog", Level: "debug", Format: "json", Output: &buf})
	defer closer.Close()

	_, ok := log.(*ZerologLogger)
	require.True(t, ok)

	log.Debug(context.Background(), "dbg")
	assert.Contains(t, buf.String(), `"message":"dbg"`)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, closer := New(Options{File: path, MaxSizeMB: 1})

	log.Info(context.Background(), "to file", "n", 1)
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "msg=\"to file\""), string(b))
}

func TestLevelParsing(t *testing.T) {
	assert.Equal(t, "DEBUG", slogLevel(" Debug ").String())
	assert.Equal(t, "INFO", slogLevel("bogus").String())
	assert.Equal(t, "warn", zerologLevel("warning").String())
	assert.Equal(t, "error", zerologLevel("ERROR").String())
}
