package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ingest_requires_input(t *testing.T) {
	m := NewMain()

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"ingest"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide at least one url")
}

func TestRun_unknown_command(t *testing.T) {
	m := NewMain()

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"bogus"}, &stdout, &stderr)

	require.Error(t, err)
}

func TestBuildImageChain_order(t *testing.T) {
	chain := buildImageChain(Config{BingSearch: true, BingKey: "b", GiphyKey: "g"}, NewMain().Logger)
	assert.Len(t, chain, 2)

	chain = buildImageChain(Config{GiphyKey: "g"}, NewMain().Logger)
	assert.Len(t, chain, 1)

	assert.Empty(t, buildImageChain(Config{}, NewMain().Logger))
}

func TestBuildChat_requires_credential(t *testing.T) {
	assert.Nil(t, buildChat(Config{}))
	assert.NotNil(t, buildChat(Config{OpenAIKey: "sk-test"}))
}
