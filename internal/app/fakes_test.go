package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"eventmind/internal/ai"
	"eventmind/internal/model"
	"eventmind/internal/vectorindex"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeObjects struct {
	data          map[string][]byte
	contentTypes  map[string]string
	getErr        error
	deleted       []string
	deleteErr     error
	prefixCount   int
	prefixErr     error
	sweptPrefixes []string
}

func (f *fakeObjects) Get(_ context.Context, key string) ([]byte, string, error) {
	if f.getErr != nil {
		return nil, "", f.getErr
	}
	return f.data[key], f.contentTypes[key], nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjects) DeletePrefix(_ context.Context, prefix string) (int, error) {
	if f.prefixErr != nil {
		return 0, f.prefixErr
	}
	f.sweptPrefixes = append(f.sweptPrefixes, prefix)
	return f.prefixCount, nil
}

type fakeEmbedder struct {
	texts    []string
	images   []string
	textErr  error
	imageErr error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if f.textErr != nil {
		return nil, f.textErr
	}
	f.texts = append(f.texts, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) EmbedImage(_ context.Context, b64 string) ([]float32, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	f.images = append(f.images, b64)
	return []float32{0.4, 0.5, 0.6}, nil
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) RecognizeText(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

type fakeIndex struct {
	upserts    map[string][]vectorindex.Record
	upsertErr  error
	matches    []vectorindex.Match
	queryErr   error
	queries    int
	deletedNS  []string
	deleteErr  error
	queryTopKs []int
}

func (f *fakeIndex) Upsert(_ context.Context, ns string, records []vectorindex.Record) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.upserts == nil {
		f.upserts = map[string][]vectorindex.Record{}
	}
	f.upserts[ns] = append(f.upserts[ns], records...)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ string, _ []float32, topK int) ([]vectorindex.Match, error) {
	f.queries++
	f.queryTopKs = append(f.queryTopKs, topK)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func (f *fakeIndex) DeleteNamespace(_ context.Context, ns string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedNS = append(f.deletedNS, ns)
	return nil
}

type fakeChat struct {
	reply string
	err   error
	calls int
}

func (f *fakeChat) Complete(_ context.Context, _ []ai.ChatMessage) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeNames struct {
	entries map[string]string
}

func (f *fakeNames) Get(_ context.Context, storagePath string) (string, bool, error) {
	name, ok := f.entries[storagePath]
	return name, ok, nil
}

func (f *fakeNames) Set(_ context.Context, storagePath, name string) error {
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.entries[storagePath] = name
	return nil
}

type fakeAssets struct {
	byPath    map[string]*model.Asset
	upserted  []*model.Asset
	getErr    error
	listErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeAssets) Upsert(asset *model.Asset) error {
	if f.byPath == nil {
		f.byPath = map[string]*model.Asset{}
	}
	f.byPath[asset.StoragePath] = asset
	f.upserted = append(f.upserted, asset)
	return nil
}

func (f *fakeAssets) GetByPath(storagePath string) (*model.Asset, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byPath[storagePath], nil
}

func (f *fakeAssets) ListByEventID(eventID string) ([]model.Asset, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Asset
	for _, a := range f.byPath {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssets) DeleteByPaths(paths []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, paths...)
	for _, p := range paths {
		delete(f.byPath, p)
	}
	return nil
}

type fakeParticipants struct {
	list      []model.Participant
	deleted   []uint
	deleteErr error
}

func (f *fakeParticipants) GetByEventAndUser(eventID string, userID uint) (*model.Participant, error) {
	for _, p := range f.list {
		if p.EventID == eventID && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipants) ListByEventID(eventID string) ([]model.Participant, error) {
	var out []model.Participant
	for _, p := range f.list {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipants) DeleteByIDs(ids []uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeStories struct {
	list    []model.Story
	deleted []uint
}

func (f *fakeStories) ListByEventID(eventID string) ([]model.Story, error) {
	var out []model.Story
	for _, s := range f.list {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStories) DeleteByIDs(ids []uint) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeSnaps struct {
	list    []model.Snap
	deleted []uint
}

func (f *fakeSnaps) ListByEventID(eventID string) ([]model.Snap, error) {
	var out []model.Snap
	for _, s := range f.list {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSnaps) DeleteByIDs(ids []uint) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeEvents struct {
	byID      map[string]*model.Event
	deleted   []string
	deleteErr error
	statuses  map[string]string
	statusErr error
}

func (f *fakeEvents) GetByID(id string) (*model.Event, error) {
	return f.byID[id], nil
}

// Mirrors the production predicate: a zero end time never matches.
func (f *fakeEvents) ListEndedBefore(cutoff time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.byID {
		if e.EndTime.After(time.Unix(0, 0)) && e.EndTime.Before(cutoff) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) UpdateStatus(id, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	if e, ok := f.byID[id]; ok {
		e.Status = status
	}
	return nil
}

func (f *fakeEvents) Delete(id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

type fakeUsers struct {
	cleared  []uint
	eventIDs []string
}

func (f *fakeUsers) ClearEventFields(userIDs []uint, eventID string) error {
	f.cleared = append(f.cleared, userIDs...)
	f.eventIDs = append(f.eventIDs, eventID)
	return nil
}
