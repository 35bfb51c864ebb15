package main

import (
	"context"
	"io"
	"log/slog"
)

// Dependencies holds the execution context for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the chat assistant HTTP server"`
	Ingest IngestCmd `cmd:"" help:"Run one crawl+summarize pass and print the notes as JSON"`
}

// Config holds the provider credentials and tuning knobs. Everything is
// settable from the environment so the binary runs unmodified in
// containers and serverless hosts.
type Config struct {
	OpenAIKey     string `env:"OPENAI_API_KEY" help:"OpenAI API key; unset runs in offline degraded mode"`
	OpenAIModel   string `env:"OPENAI_MODEL" default:"gpt-4o-mini" help:"Chat/summarization model"`
	OpenAIProject string `env:"OPENAI_PROJECT" help:"OpenAI project ID, required for sk-proj keys"`
	OpenAIOrg     string `env:"OPENAI_ORG" help:"OpenAI organization ID"`

	BingKey    string `env:"BING_API_KEY" help:"Bing Web/Image Search API key"`
	BingSearch bool   `env:"BING_SEARCH" help:"Enable Bing search expansion and image lookup"`
	GiphyKey   string `env:"GIPHY_API_KEY" help:"Giphy API key for the image fallback"`

	MaxIngestBytes int `env:"MAX_INGEST_BYTES" default:"180000" help:"Per-page extracted text budget"`
	ChunkBytes     int `env:"CHUNK_BYTES" default:"45000" help:"Summarization chunk size in bytes"`
	CacheMillis    int `env:"INGEST_CACHE_MS" default:"300000" help:"Ingest cache freshness window in milliseconds"`
	PerDomain      int `env:"CRAWL_PER_DOMAIN" default:"6" help:"Per-domain fetch quota per ingest pass"`

	RefsJSON string `env:"REFS_JSON" help:"Static JSON array of reference links served with chat replies"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Config
	Addr string `env:"ADDR,PORT" default:":8787" help:"HTTP bind address, or a bare port number"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Config
	URLs    []string `arg:"" optional:"" help:"Seed URLs to crawl"`
	Query   []string `short:"q" help:"Free-text query to expand through the search provider (repeatable)"`
	Domains []string `short:"d" name:"domain" help:"Restrict the crawl to these domains (repeatable)"`
}
