package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eventmind/internal/model"
	"eventmind/internal/pkg/chunker"
	"eventmind/internal/pkg/pdfextract"
	"eventmind/internal/vectorindex"
)

const embedConcurrency = 4

// IngestService drives the per-asset pipeline: download, extract, chunk,
// embed, upsert vectors, record asset metadata. Metadata is written only
// when every prior stage succeeded; a failed run leaves no embedded marker
// and deterministic vector IDs make re-ingestion an overwrite.
type IngestService struct {
	objects      ObjectStore
	embedder     Embedder
	recognizer   TextRecognizer
	index        VectorIndex
	assets       AssetStore
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

type IngestInput struct {
	EventID     string
	StoragePath string
	// ContentType overrides the type recorded by the object store when
	// non-empty.
	ContentType string
}

type IngestResult struct {
	Chunks        int  `json:"chunks"`
	ImageFallback bool `json:"image_fallback"`
}

func NewIngestService(
	objects ObjectStore,
	embedder Embedder,
	recognizer TextRecognizer,
	index VectorIndex,
	assets AssetStore,
	chunkSize, chunkOverlap int,
	logger *slog.Logger,
) *IngestService {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = chunker.DefaultOverlap
	}
	return &IngestService{
		objects:      objects,
		embedder:     embedder,
		recognizer:   recognizer,
		index:        index,
		assets:       assets,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Ingest runs the full pipeline for one uploaded asset.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	eventID := strings.TrimSpace(input.EventID)
	storagePath := strings.TrimSpace(input.StoragePath)
	if eventID == "" || storagePath == "" {
		return nil, ErrInvalidInput
	}

	data, storedType, err := s.objects.Get(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", ErrExternalService, storagePath, err)
	}

	// The caller's declared type wins; absent that, trust what the object
	// store recorded at upload time.
	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = storedType
	}

	switch {
	case contentType == "application/pdf":
		text, err := pdfextract.ExtractText(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: pdf has no extractable text", ErrExtraction)
		}
		return s.ingestText(ctx, eventID, storagePath, text)

	case strings.HasPrefix(contentType, "image/"):
		text, err := s.recognizer.RecognizeText(ctx, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: ocr: %v", ErrExternalService, err)
		}
		if strings.TrimSpace(text) != "" {
			return s.ingestText(ctx, eventID, storagePath, text)
		}
		// No recognizable text: embed the raw image so purely visual
		// assets stay searchable.
		return s.ingestRawImage(ctx, eventID, storagePath, data)

	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, contentType)
	}
}

func (s *IngestService) ingestText(ctx context.Context, eventID, storagePath, text string) (*IngestResult, error) {
	chunks := chunker.Split(text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return nil, ErrEmptyContent
	}

	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			vec, err := s.embedder.EmbedText(gctx, chunk)
			if err != nil {
				return fmt.Errorf("%w: embed chunk %d: %v", ErrExternalService, i, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]vectorindex.Record, len(chunks))
	for i := range chunks {
		records[i] = vectorindex.Record{
			ID:     vectorID(storagePath, i),
			Values: vectors[i],
			Metadata: vectorindex.Metadata{
				EventID:     eventID,
				StoragePath: storagePath,
				ChunkIndex:  i,
				Text:        chunks[i],
			},
		}
	}
	if err := s.index.Upsert(ctx, eventID, records); err != nil {
		return nil, fmt.Errorf("%w: upsert vectors: %v", ErrExternalService, err)
	}

	if err := s.recordAsset(eventID, storagePath, len(chunks)); err != nil {
		return nil, err
	}

	s.logger.Info("asset ingested",
		"event_id", eventID, "storage_path", storagePath, "chunks", len(chunks))
	return &IngestResult{Chunks: len(chunks)}, nil
}

func (s *IngestService) ingestRawImage(ctx context.Context, eventID, storagePath string, data []byte) (*IngestResult, error) {
	encoded := base64.StdEncoding.EncodeToString(data)
	vec, err := s.embedder.EmbedImage(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: embed image: %v", ErrExternalService, err)
	}

	record := vectorindex.Record{
		ID:     vectorID(storagePath, 0),
		Values: vec,
		Metadata: vectorindex.Metadata{
			EventID:     eventID,
			StoragePath: storagePath,
			ChunkIndex:  0,
			Text:        "",
		},
	}
	if err := s.index.Upsert(ctx, eventID, []vectorindex.Record{record}); err != nil {
		return nil, fmt.Errorf("%w: upsert vectors: %v", ErrExternalService, err)
	}

	if err := s.recordAsset(eventID, storagePath, 1); err != nil {
		return nil, err
	}

	s.logger.Info("image asset ingested via raw-embedding fallback",
		"event_id", eventID, "storage_path", storagePath)
	return &IngestResult{Chunks: 1, ImageFallback: true}, nil
}

func (s *IngestService) recordAsset(eventID, storagePath string, chunks int) error {
	asset := &model.Asset{
		StoragePath: storagePath,
		EventID:     eventID,
		Name:        path.Base(storagePath),
		Embedded:    true,
		Chunks:      chunks,
		UpdatedAt:   time.Now(),
	}
	if err := s.assets.Upsert(asset); err != nil {
		return fmt.Errorf("record asset metadata: %w", err)
	}
	return nil
}

func vectorID(storagePath string, chunkIndex int) string {
	return fmt.Sprintf("%s#%d", storagePath, chunkIndex)
}
