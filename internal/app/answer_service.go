package app

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"eventmind/internal/ai"
	"eventmind/internal/vectorindex"
)

const (
	defaultTopK          = 5
	defaultMinScore      = 0.5
	excerptLimit         = 200
	noInformationAnswer  = "I couldn't find any relevant information about that in this event's documents."
	groundedSystemPrompt = "You are an assistant answering questions about an event using only the context below. " +
		"Each context block is labeled [Source N]. Answer strictly from the context and reference the sources " +
		"you used by their [Source N] labels. If the context does not contain the answer, say you don't know. " +
		"Do not make up facts."
)

// Citation points an answer back to the source chunk that supported it.
// Response-only, never persisted.
type Citation struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	ChunkIndex   int    `json:"chunk_index"`
	Excerpt      string `json:"excerpt"`
	StoragePath  string `json:"storage_path"`
}

type AnswerInput struct {
	EventID  string
	UserID   uint
	Question string
}

type AnswerResult struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// AnswerService embeds a question, retrieves relevant chunks from the
// event's namespace, and synthesizes a grounded, cited answer.
type AnswerService struct {
	participants ParticipantStore
	assets       AssetStore
	names        NameCache
	embedder     Embedder
	index        VectorIndex
	chat         ChatCompleter
	topK         int
	minScore     float32
	logger       *slog.Logger
}

func NewAnswerService(
	participants ParticipantStore,
	assets AssetStore,
	names NameCache,
	embedder Embedder,
	index VectorIndex,
	chat ChatCompleter,
	topK int,
	minScore float32,
	logger *slog.Logger,
) *AnswerService {
	if topK <= 0 {
		topK = defaultTopK
	}
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	return &AnswerService{
		participants: participants,
		assets:       assets,
		names:        names,
		embedder:     embedder,
		index:        index,
		chat:         chat,
		topK:         topK,
		minScore:     minScore,
		logger:       logger,
	}
}

// Answer runs the retrieval-and-synthesis pipeline for one question.
func (s *AnswerService) Answer(ctx context.Context, input AnswerInput) (*AnswerResult, error) {
	eventID := strings.TrimSpace(input.EventID)
	question := strings.TrimSpace(input.Question)
	if eventID == "" || question == "" || input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	member, err := s.participants.GetByEventAndUser(eventID, input.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: not a participant of event %s", ErrPermissionDenied, eventID)
	}

	queryVec, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %v", ErrExternalService, err)
	}

	matches, err := s.index.Query(ctx, eventID, queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: vector query: %v", ErrExternalService, err)
	}

	retained := matches[:0]
	for _, m := range matches {
		if m.Score >= s.minScore {
			retained = append(retained, m)
		}
	}
	if len(retained) == 0 {
		return &AnswerResult{Text: noInformationAnswer, Citations: []Citation{}}, nil
	}

	var contextBlock strings.Builder
	for i, m := range retained {
		fmt.Fprintf(&contextBlock, "[Source %d]\n%s\n\n", i+1, m.Metadata.Text)
	}

	messages := []ai.ChatMessage{
		{Role: "system", Content: groundedSystemPrompt + "\n\nContext:\n" + contextBlock.String()},
		{Role: "user", Content: question},
	}
	answer, err := s.chat.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: completion: %v", ErrExternalService, err)
	}

	return &AnswerResult{
		Text:      strings.TrimSpace(answer),
		Citations: s.buildCitations(ctx, retained),
	}, nil
}

func (s *AnswerService) buildCitations(ctx context.Context, matches []vectorindex.Match) []Citation {
	citations := make([]Citation, 0, len(matches))
	for i, m := range matches {
		citations = append(citations, Citation{
			DocumentID:   path.Base(m.Metadata.StoragePath),
			DocumentName: s.documentName(ctx, m.Metadata.StoragePath, i+1),
			ChunkIndex:   m.Metadata.ChunkIndex,
			Excerpt:      truncateExcerpt(m.Metadata.Text),
			StoragePath:  m.Metadata.StoragePath,
		})
	}
	return citations
}

// documentName resolves a display name best-effort: cache, then the asset
// record. Any failure falls back to a synthetic label instead of failing
// the whole answer.
func (s *AnswerService) documentName(ctx context.Context, storagePath string, ordinal int) string {
	if name, ok, err := s.names.Get(ctx, storagePath); err == nil && ok {
		return name
	}
	asset, err := s.assets.GetByPath(storagePath)
	if err != nil || asset == nil || asset.Name == "" {
		s.logger.Warn("document name lookup failed, using synthetic label",
			"storage_path", storagePath, "error", err)
		return fmt.Sprintf("Document %d", ordinal)
	}
	if err := s.names.Set(ctx, storagePath, asset.Name); err != nil {
		s.logger.Warn("document name cache write failed", "error", err)
	}
	return asset.Name
}

func truncateExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit]) + "…"
}
