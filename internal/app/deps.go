package app

import (
	"context"
	"time"

	"eventmind/internal/ai"
	"eventmind/internal/model"
	"eventmind/internal/vectorindex"
)

// Interfaces over the external collaborators so the orchestrators can be
// exercised without live services. The concrete implementations live in
// internal/ai, internal/vectorindex, internal/storage, internal/cache, and
// internal/repository.

type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, base64Data string) ([]float32, error)
}

type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte, mimeType string) (string, error)
}

type ChatCompleter interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

type VectorIndex interface {
	Upsert(ctx context.Context, namespace string, records []vectorindex.Record) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorindex.Match, error)
	DeleteNamespace(ctx context.Context, namespace string) error
}

type ObjectStore interface {
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

type NameCache interface {
	Get(ctx context.Context, storagePath string) (string, bool, error)
	Set(ctx context.Context, storagePath, name string) error
}

type EventStore interface {
	GetByID(id string) (*model.Event, error)
	ListEndedBefore(cutoff time.Time) ([]model.Event, error)
	UpdateStatus(id, status string) error
	Delete(id string) error
}

type AssetStore interface {
	Upsert(asset *model.Asset) error
	GetByPath(storagePath string) (*model.Asset, error)
	ListByEventID(eventID string) ([]model.Asset, error)
	DeleteByPaths(storagePaths []string) error
}

type ParticipantStore interface {
	GetByEventAndUser(eventID string, userID uint) (*model.Participant, error)
	ListByEventID(eventID string) ([]model.Participant, error)
	DeleteByIDs(ids []uint) error
}

type StoryStore interface {
	ListByEventID(eventID string) ([]model.Story, error)
	DeleteByIDs(ids []uint) error
}

type SnapStore interface {
	ListByEventID(eventID string) ([]model.Snap, error)
	DeleteByIDs(ids []uint) error
}

type UserStore interface {
	ClearEventFields(userIDs []uint, eventID string) error
}
