package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestService(objects *fakeObjects, embedder *fakeEmbedder, recognizer *fakeRecognizer, index *fakeIndex, assets *fakeAssets) *IngestService {
	return NewIngestService(objects, embedder, recognizer, index, assets, 3000, 300, testLogger())
}

func TestIngest_ImageWithOCRText_FullPipeline(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"events/ev1/docs/menu.png": []byte("png-bytes"),
	}}
	embedder := &fakeEmbedder{}
	recognizer := &fakeRecognizer{text: strings.Repeat("a", 7000)}
	index := &fakeIndex{}
	assets := &fakeAssets{}
	svc := newIngestService(objects, embedder, recognizer, index, assets)

	result, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/menu.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Chunks)
	assert.False(t, result.ImageFallback)

	records := index.upserts["ev1"]
	require.Len(t, records, 3)
	assert.Equal(t, "events/ev1/docs/menu.png#0", records[0].ID)
	assert.Equal(t, "events/ev1/docs/menu.png#1", records[1].ID)
	assert.Equal(t, "events/ev1/docs/menu.png#2", records[2].ID)
	for i, r := range records {
		assert.Equal(t, "ev1", r.Metadata.EventID)
		assert.Equal(t, i, r.Metadata.ChunkIndex)
		assert.NotEmpty(t, r.Metadata.Text)
	}

	require.Len(t, assets.upserted, 1)
	asset := assets.upserted[0]
	assert.True(t, asset.Embedded)
	assert.Equal(t, 3, asset.Chunks)
	assert.Equal(t, "ev1", asset.EventID)
	assert.Equal(t, "menu.png", asset.Name)
}

func TestIngest_DeterministicIDsOnReingest(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"events/ev1/docs/a.png": []byte("x"),
	}}
	recognizer := &fakeRecognizer{text: strings.Repeat("b", 4000)}
	index := &fakeIndex{}
	assets := &fakeAssets{}
	svc := newIngestService(objects, &fakeEmbedder{}, recognizer, index, assets)

	input := IngestInput{EventID: "ev1", StoragePath: "events/ev1/docs/a.png", ContentType: "image/png"}
	_, err := svc.Ingest(context.Background(), input)
	require.NoError(t, err)
	firstIDs := recordIDs(t, index, "ev1")

	index.upserts = nil
	_, err = svc.Ingest(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, firstIDs, recordIDs(t, index, "ev1"))
}

func TestIngest_ImageFallbackWhenNoOCRText(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"events/ev1/docs/photo.jpg": []byte("jpeg-bytes"),
	}}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	assets := &fakeAssets{}
	svc := newIngestService(objects, embedder, &fakeRecognizer{text: ""}, index, assets)

	result, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/photo.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	assert.True(t, result.ImageFallback)
	assert.Equal(t, 1, result.Chunks)
	require.Len(t, embedder.images, 1)

	records := index.upserts["ev1"]
	require.Len(t, records, 1)
	assert.Equal(t, "events/ev1/docs/photo.jpg#0", records[0].ID)
	assert.Equal(t, 0, records[0].Metadata.ChunkIndex)
	assert.Empty(t, records[0].Metadata.Text)

	require.Len(t, assets.upserted, 1)
	assert.Equal(t, 1, assets.upserted[0].Chunks)
}

func TestIngest_ContentTypeFallsBackToObjectStore(t *testing.T) {
	objects := &fakeObjects{
		data:         map[string][]byte{"events/ev1/docs/map.png": []byte("png-bytes")},
		contentTypes: map[string]string{"events/ev1/docs/map.png": "image/png"},
	}
	index := &fakeIndex{}
	assets := &fakeAssets{}
	svc := newIngestService(objects, &fakeEmbedder{}, &fakeRecognizer{text: "hall B, second floor"}, index, assets)

	result, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/map.png",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Chunks)
	require.Len(t, index.upserts["ev1"], 1)
	require.Len(t, assets.upserted, 1)
}

func TestIngest_DeclaredContentTypeOverridesStored(t *testing.T) {
	objects := &fakeObjects{
		data:         map[string][]byte{"events/ev1/docs/a.bin": []byte("x")},
		contentTypes: map[string]string{"events/ev1/docs/a.bin": "application/octet-stream"},
	}
	svc := newIngestService(objects, &fakeEmbedder{}, &fakeRecognizer{text: "scanned text"}, &fakeIndex{}, &fakeAssets{})

	_, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/a.bin",
		ContentType: "image/png",
	})
	require.NoError(t, err)
}

func TestIngest_NoUsableContentType(t *testing.T) {
	objects := &fakeObjects{
		data:         map[string][]byte{"events/ev1/docs/a.bin": []byte("x")},
		contentTypes: map[string]string{"events/ev1/docs/a.bin": "application/octet-stream"},
	}
	svc := newIngestService(objects, &fakeEmbedder{}, &fakeRecognizer{}, &fakeIndex{}, &fakeAssets{})

	_, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/a.bin",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIngest_PDFParseFailure(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"events/ev1/docs/broken.pdf": []byte("not a pdf"),
	}}
	assets := &fakeAssets{}
	svc := newIngestService(objects, &fakeEmbedder{}, &fakeRecognizer{}, &fakeIndex{}, assets)

	_, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/broken.pdf",
		ContentType: "application/pdf",
	})
	require.ErrorIs(t, err, ErrExtraction)
	assert.Empty(t, assets.upserted, "metadata must not be written on failure")
}

func TestIngest_EmbeddingFailureLeavesNoMetadata(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"events/ev1/docs/a.png": []byte("x"),
	}}
	embedder := &fakeEmbedder{textErr: assert.AnError}
	assets := &fakeAssets{}
	svc := newIngestService(objects, embedder, &fakeRecognizer{text: "some text"}, &fakeIndex{}, assets)

	_, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/a.png",
		ContentType: "image/png",
	})
	require.ErrorIs(t, err, ErrExternalService)
	assert.Empty(t, assets.upserted)
}

func TestIngest_UpsertFailureLeavesNoMetadata(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{
		"events/ev1/docs/a.png": []byte("x"),
	}}
	index := &fakeIndex{upsertErr: assert.AnError}
	assets := &fakeAssets{}
	svc := newIngestService(objects, &fakeEmbedder{}, &fakeRecognizer{text: "some text"}, index, assets)

	_, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/a.png",
		ContentType: "image/png",
	})
	require.ErrorIs(t, err, ErrExternalService)
	assert.Empty(t, assets.upserted)
}

func TestIngest_UnsupportedContentType(t *testing.T) {
	objects := &fakeObjects{data: map[string][]byte{"events/ev1/docs/a.zip": []byte("x")}}
	svc := newIngestService(objects, &fakeEmbedder{}, &fakeRecognizer{}, &fakeIndex{}, &fakeAssets{})

	_, err := svc.Ingest(context.Background(), IngestInput{
		EventID:     "ev1",
		StoragePath: "events/ev1/docs/a.zip",
		ContentType: "application/zip",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIngest_MissingFields(t *testing.T) {
	svc := newIngestService(&fakeObjects{}, &fakeEmbedder{}, &fakeRecognizer{}, &fakeIndex{}, &fakeAssets{})

	_, err := svc.Ingest(context.Background(), IngestInput{EventID: "", StoragePath: "p", ContentType: "application/pdf"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Ingest(context.Background(), IngestInput{EventID: "ev1", StoragePath: "", ContentType: "application/pdf"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func recordIDs(t *testing.T, index *fakeIndex, ns string) []string {
	t.Helper()
	records := index.upserts[ns]
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
