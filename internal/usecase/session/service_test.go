package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/prasetyadev/notulen-assistant/errors"
	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/transcription"
)

type mapStore struct {
	mu    sync.Mutex
	items map[string]*entities.MinutesSession
}

func newMapStore() *mapStore {
	return &mapStore{items: make(map[string]*entities.MinutesSession)}
}

func (m *mapStore) Put(s *entities.MinutesSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID.String()] = s
}

func (m *mapStore) Get(id string) (*entities.MinutesSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	return s, ok
}

func (m *mapStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

type fakeTranscriber struct {
	text     string
	provider string
	err      error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, in transcription.Input) (string, string, error) {
	return f.text, f.provider, f.err
}

type fakeExtractor struct {
	result    *entities.ExtractionResult
	err       error
	block     chan struct{}
	started   chan struct{}
	startOnce sync.Once
}

func (f *fakeExtractor) Extract(ctx context.Context, rawText string) (*entities.ExtractionResult, error) {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
	return f.result, f.err
}

type fakeAudioStore struct {
	uploaded map[string]int64
	removed  []string
}

func newFakeAudioStore() *fakeAudioStore {
	return &fakeAudioStore{uploaded: make(map[string]int64)}
}

func (f *fakeAudioStore) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	f.uploaded[objectName] = size
	return nil
}

func (f *fakeAudioStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "http://storage.local/" + objectName, nil
}

func (f *fakeAudioStore) Remove(ctx context.Context, objectName string) error {
	f.removed = append(f.removed, objectName)
	return nil
}

func newTestService(extractor Extractor, transcriber Transcriber) (*Service, *mapStore, *fakeAudioStore) {
	store := newMapStore()
	audio := newFakeAudioStore()
	if transcriber == nil {
		transcriber = &fakeTranscriber{text: "halo ini rapat", provider: "whisper"}
	}
	if extractor == nil {
		extractor = &fakeExtractor{result: entities.NewParsedResult("C", []entities.TopicEntry{{Topic: "T", Agreement: "K"}}, "{}")}
	}
	return NewService(store, audio, transcriber, extractor, nil), store, audio
}

func TestProcessAudio_ReplacesTranscriptAndInvalidatesDerivedState(t *testing.T) {
	svc, _, audio := newTestService(nil, nil)
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := sess.ID.String()

	// Seed derived state, then upload new audio
	if _, err := svc.SetTranscript(ctx, id, "lama"); err != nil {
		t.Fatalf("set transcript: %v", err)
	}
	if _, err := svc.ExtractMinutes(ctx, id); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := svc.RenderDocument(ctx, id); err != nil {
		t.Fatalf("render: %v", err)
	}

	updated, err := svc.ProcessAudio(ctx, id, "/tmp/a.wav", "rapat.wav", strings.NewReader("RIFF"), 4)
	if err != nil {
		t.Fatalf("process audio: %v", err)
	}
	if updated.RawTranscript != "halo ini rapat" {
		t.Fatalf("transcript not replaced, got %q", updated.RawTranscript)
	}
	if updated.Extraction != nil || updated.Document != "" {
		t.Fatalf("derived state must be invalidated on transcript replace")
	}
	if updated.Provider != "whisper" {
		t.Fatalf("provider not recorded, got %q", updated.Provider)
	}
	if len(audio.uploaded) != 1 {
		t.Fatalf("audio not archived")
	}
}

func TestProcessAudio_UnsupportedFormat(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)

	_, err := svc.ProcessAudio(ctx, sess.ID.String(), "/tmp/a.pdf", "slides.pdf", strings.NewReader("x"), 1)
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_AUDIO_UNSUPPORTED_FORMAT {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestProcessAudio_TranscriptionFailureKeepsSnapshot(t *testing.T) {
	svc, _, _ := newTestService(nil, &fakeTranscriber{err: errors.New("all providers down")})
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()

	if _, err := svc.SetTranscript(ctx, id, "catatan lama"); err != nil {
		t.Fatalf("set transcript: %v", err)
	}

	if _, err := svc.ProcessAudio(ctx, id, "/tmp/a.wav", "a.wav", strings.NewReader("x"), 1); err == nil {
		t.Fatalf("expected transcription error")
	}

	current, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.RawTranscript != "catatan lama" {
		t.Fatalf("prior transcript must survive a failed action, got %q", current.RawTranscript)
	}
}

func TestExtractMinutes_ReplacesWholesale(t *testing.T) {
	first := entities.NewParsedResult("C1", []entities.TopicEntry{{Topic: "A", Agreement: "1"}}, "{}")
	second := entities.NewParsedResult("C2", []entities.TopicEntry{{Topic: "B", Agreement: "2"}, {Topic: "C", Agreement: "3"}}, "{}")
	extractor := &fakeExtractor{result: first}
	svc, _, _ := newTestService(extractor, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()
	svc.SetTranscript(ctx, id, "rapat")

	if _, err := svc.ExtractMinutes(ctx, id); err != nil {
		t.Fatalf("first extract: %v", err)
	}

	extractor.result = second
	updated, err := svc.ExtractMinutes(ctx, id)
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if len(updated.Extraction.Topics) != 2 {
		t.Fatalf("expected wholesale replacement, got %+v", updated.Extraction.Topics)
	}
}

func TestExtractMinutes_SingleInFlightPerSession(t *testing.T) {
	extractor := &fakeExtractor{
		result:  entities.NewParsedResult("C", []entities.TopicEntry{{Topic: "T", Agreement: "K"}}, "{}"),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	svc, _, _ := newTestService(extractor, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()
	svc.SetTranscript(ctx, id, "rapat")

	done := make(chan error, 1)
	go func() {
		_, err := svc.ExtractMinutes(ctx, id)
		done <- err
	}()
	<-extractor.started

	_, err := svc.ExtractMinutes(ctx, id)
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_EXTRACTION_IN_FLIGHT {
		t.Fatalf("expected in-flight conflict, got %v", err)
	}

	close(extractor.block)
	if err := <-done; err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}

	// Guard releases after completion
	if _, err := svc.ExtractMinutes(ctx, id); err != nil {
		t.Fatalf("extraction after release failed: %v", err)
	}
}

func TestExtractMinutes_BackendFailureLeavesStateUntouched(t *testing.T) {
	good := entities.NewParsedResult("C", []entities.TopicEntry{{Topic: "T", Agreement: "K"}}, "{}")
	extractor := &fakeExtractor{result: good}
	svc, _, _ := newTestService(extractor, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()
	svc.SetTranscript(ctx, id, "rapat")
	svc.ExtractMinutes(ctx, id)

	extractor.result = nil
	extractor.err = errors.New("quota exceeded")
	if _, err := svc.ExtractMinutes(ctx, id); err == nil {
		t.Fatalf("expected backend error")
	}

	current, _ := svc.Get(ctx, id)
	if current.Extraction == nil || len(current.Extraction.Topics) != 1 {
		t.Fatalf("previous extraction must survive a failed action")
	}
}

func TestUpdateTopic_MutatesInPlace(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()
	svc.SetTranscript(ctx, id, "rapat")
	svc.ExtractMinutes(ctx, id)

	updated, err := svc.UpdateTopic(ctx, id, 0, "Topik Baru", "Kesepakatan Baru")
	if err != nil {
		t.Fatalf("update topic: %v", err)
	}
	if got := updated.Extraction.Topics[0]; got.Topic != "Topik Baru" || got.Agreement != "Kesepakatan Baru" {
		t.Fatalf("topic not mutated, got %+v", got)
	}
	if len(updated.Extraction.Topics) != 1 {
		t.Fatalf("edit changed topic count")
	}

	if _, err := svc.UpdateTopic(ctx, id, 5, "x", "y"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestDocument_RequiresRender(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()

	if _, err := svc.Document(ctx, id); err == nil {
		t.Fatalf("expected error before rendering")
	}

	svc.SetTranscript(ctx, id, "rapat")
	svc.ExtractMinutes(ctx, id)
	if _, err := svc.RenderDocument(ctx, id); err != nil {
		t.Fatalf("render: %v", err)
	}

	doc, err := svc.Document(ctx, id)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if !strings.HasPrefix(doc, "# Minutes of Meeting") {
		t.Fatalf("unexpected document:\n%s", doc)
	}
}

func TestDelete_RemovesAudioObject(t *testing.T) {
	svc, store, audio := newTestService(nil, nil)
	ctx := context.Background()
	sess, _ := svc.Create(ctx)
	id := sess.ID.String()
	svc.ProcessAudio(ctx, id, "/tmp/a.wav", "a.wav", strings.NewReader("x"), 1)

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get(id); ok {
		t.Fatalf("session still in store after delete")
	}
	if len(audio.removed) != 1 {
		t.Fatalf("audio object not removed")
	}
}
