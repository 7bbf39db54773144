// Command ingest loads YouTube transcripts and plain-text documents into the
// Qdrant collection, either directly or by enqueueing jobs on NATS.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/voyago/voyago/engine/embed"
	"github.com/voyago/voyago/engine/ingest"
	"github.com/voyago/voyago/engine/semantic"
	"github.com/voyago/voyago/engine/youtube"
	"github.com/voyago/voyago/pkg/natsutil"
)

func main() {
	var (
		videos     = flag.String("videos", "", "comma-separated YouTube video IDs to ingest")
		textFiles  = flag.String("files", "", "comma-separated text files to ingest")
		enqueue    = flag.Bool("enqueue", false, "publish video jobs to the NATS queue instead of ingesting directly")
		natsURL    = flag.String("nats", "nats://localhost:4222", "NATS server URL (enqueue mode)")
		qdrantAddr = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		apiKey     = flag.String("qdrant-api-key", "", "Qdrant API key")
		collection = flag.String("collection", "demo_bge_m3", "Qdrant collection name")
		embedBase  = flag.String("embed-url", "", "embedding API base URL")
		embedModel = flag.String("embed-model", "BAAI/bge-m3", "embedding model")
		embedDims  = flag.Int("embed-dims", embed.DefaultDims, "embedding dimensionality")
		chunkSize  = flag.Int("chunk-size", 0, "approximate tokens per chunk (0 ingests each document whole)")
		overlap    = flag.Int("chunk-overlap", ingest.DefaultOverlap, "tokens shared between adjacent chunks")
	)
	flag.Parse()
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	videoIDs := splitList(*videos)
	files := splitList(*textFiles)
	if len(videoIDs) == 0 && len(files) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -videos and/or -files")
		flag.Usage()
		os.Exit(2)
	}

	if *enqueue {
		if len(files) > 0 {
			log.Error("enqueue mode only supports videos")
			os.Exit(1)
		}
		nc, err := natsutil.Connect(*natsURL, "voyago-ingest", log)
		if err != nil {
			log.Error("nats connect failed", "err", err)
			os.Exit(1)
		}
		defer nc.Close()

		for _, id := range videoIDs {
			if err := ingest.Enqueue(ctx, nc, ingest.Job{VideoID: id}); err != nil {
				log.Error("enqueue failed", "video_id", id, "err", err)
				os.Exit(1)
			}
			log.Info("enqueued", "video_id", id)
		}
		nc.Flush()
		return
	}

	store, err := semantic.New(*qdrantAddr, *collection, *apiKey)
	if err != nil {
		log.Error("qdrant connect failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.EnsureCollection(ctx, *embedDims); err != nil {
		log.Error("ensure collection failed", "err", err)
		os.Exit(1)
	}

	embedder := embed.NewOpenAIEmbedder(embed.OpenAIConfig{
		APIKey:  os.Getenv("EMBED_API_KEY"),
		BaseURL: *embedBase,
		Model:   *embedModel,
		Dims:    *embedDims,
	})

	var chunker ingest.Chunker = ingest.WholeDoc{}
	if *chunkSize > 0 {
		chunker = ingest.SentenceWindow{Size: *chunkSize, Overlap: *overlap}
	}
	svc := ingest.New(youtube.NewFetcher(nil, nil), embedder, store, chunker, log)

	failed := 0
	for _, id := range videoIDs {
		ids, err := svc.IngestYouTube(ctx, id, nil)
		if err != nil {
			log.Error("video ingestion failed", "video_id", id, "err", err)
			failed++
			continue
		}
		log.Info("video ingested", "video_id", id, "chunks", len(ids))
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("read file failed", "path", path, "err", err)
			failed++
			continue
		}
		meta := map[string]any{"source": "file", "filename": filepath.Base(path)}
		id, err := svc.InsertText(ctx, string(data), meta, "")
		if err != nil {
			log.Error("file ingestion failed", "path", path, "err", err)
			failed++
			continue
		}
		log.Info("file ingested", "path", path, "id", id)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
