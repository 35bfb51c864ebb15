package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/larsmarsfars/chatsite"
	"github.com/larsmarsfars/chatsite/bing"
	"github.com/larsmarsfars/chatsite/crawl"
	"github.com/larsmarsfars/chatsite/giphy"
	"github.com/larsmarsfars/chatsite/goquery"
	"github.com/larsmarsfars/chatsite/html"
	chatsitehttp "github.com/larsmarsfars/chatsite/http"
	"github.com/larsmarsfars/chatsite/mem"
	"github.com/larsmarsfars/chatsite/openai"
	chatsiteslog "github.com/larsmarsfars/chatsite/slog"
)

// crawlRPS is the per-domain politeness rate for crawl fetches.
const crawlRPS = 1.0

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	Logger *slog.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, nil)),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: m.Logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("chatsite"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	logger := deps.Logger

	addr := c.Addr
	if !strings.Contains(addr, ":") {
		// PORT-style value: a bare port number.
		addr = ":" + addr
	}

	srv := chatsitehttp.NewServer()
	srv.Addr = addr
	srv.Logger = logger
	srv.Ingester = buildIngester(c.Config, logger)
	srv.Ingester.Crawler.Observer = srv.Metrics
	srv.Chat = buildChat(c.Config)
	srv.Images = buildImageChain(c.Config, logger)

	if c.RefsJSON != "" {
		if !json.Valid([]byte(c.RefsJSON)) {
			return fmt.Errorf("REFS_JSON is not valid JSON")
		}
		srv.Refs = json.RawMessage(c.RefsJSON)
	}

	if srv.Chat == nil {
		logger.Warn("OPENAI_API_KEY not set; chat disabled, ingest runs in offline mode")
	}

	if err := srv.Open(); err != nil {
		return err
	}

	<-deps.Ctx.Done()
	logger.Info("shutting down")
	return srv.Close()
}

// Run performs a single ingest pass and prints the result to stdout.
func (c *IngestCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 0 && len(c.Query) == 0 {
		return fmt.Errorf("provide at least one url or --query")
	}

	ing := buildIngester(c.Config, deps.Logger)
	result, _, err := ing.Ingest(deps.Ctx, chatsite.CrawlRequest{
		URLs:         c.URLs,
		Queries:      c.Query,
		AllowDomains: c.Domains,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Notes   []chatsite.Note         `json:"notes"`
		Gallery []chatsite.GalleryImage `json:"gallery"`
		Offline bool                    `json:"offline,omitempty"`
	}{result.Notes, result.Gallery, result.Offline})
}

// buildIngester wires the crawl pipeline from configuration. The search
// provider and summarizer are optional; without them the pipeline still
// crawls explicit URLs and emits offline notes.
func buildIngester(cfg Config, logger *slog.Logger) *crawl.Ingester {
	extractor := goquery.NewExtractor()

	crawler := &crawl.Crawler{
		Fetcher:   chatsitehttp.NewFetcher(),
		Links:     extractor,
		Images:    extractor,
		Limiter:   crawl.NewDomainLimiter(crawlRPS),
		PerDomain: cfg.PerDomain,
	}
	if cfg.BingSearch && cfg.BingKey != "" {
		crawler.Search = chatsiteslog.NewLoggingSearchProvider(bing.NewClient(cfg.BingKey), logger)
	}

	ing := &crawl.Ingester{
		Crawler:  crawler,
		Text:     html.NewExtractor(),
		Cache:    mem.NewIngestCache(mem.WithTTL(time.Duration(cfg.CacheMillis) * time.Millisecond)),
		MaxBytes: cfg.MaxIngestBytes,
	}
	if cfg.OpenAIKey != "" {
		client := openaiClient(cfg)
		ing.Summarizer = chatsiteslog.NewLoggingSummarizer(
			openai.NewSummarizer(client, openai.WithChunkBytes(cfg.ChunkBytes)),
			logger,
		)
	}
	return ing
}

// buildChat returns nil when no credential is configured; the server
// turns that into a client-visible error on /api/ask.
func buildChat(cfg Config) chatsite.ChatService {
	if cfg.OpenAIKey == "" {
		return nil
	}
	return openai.NewChat(openaiClient(cfg))
}

// buildImageChain assembles the image-search fallback chain in priority
// order: Bing first, Giphy as the fallback.
func buildImageChain(cfg Config, logger *slog.Logger) []chatsite.ImageSearcher {
	var chain []chatsite.ImageSearcher
	if cfg.BingSearch && cfg.BingKey != "" {
		chain = append(chain, chatsiteslog.NewLoggingImageSearcher(bing.NewClient(cfg.BingKey), "bing", logger))
	}
	if cfg.GiphyKey != "" {
		chain = append(chain, chatsiteslog.NewLoggingImageSearcher(giphy.NewClient(cfg.GiphyKey), "giphy", logger))
	}
	return chain
}

func openaiClient(cfg Config) *openai.Client {
	return openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIKey,
		Model:   cfg.OpenAIModel,
		Project: cfg.OpenAIProject,
		Org:     cfg.OpenAIOrg,
	})
}
