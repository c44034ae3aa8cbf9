package session

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prasetyadev/notulen-assistant/errors"
	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/minutes"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/transcription"
)

// Store is the in-memory session snapshot store
type Store interface {
	Put(session *entities.MinutesSession)
	Get(id string) (*entities.MinutesSession, bool)
	Delete(id string)
}

// AudioStore archives the uploaded clip for the lifetime of its session
type AudioStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// Transcriber turns an audio clip into raw transcript text
type Transcriber interface {
	Transcribe(ctx context.Context, in transcription.Input) (text string, provider string, err error)
}

// Extractor runs the correct-and-structure pipeline
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*entities.ExtractionResult, error)
}

var supportedAudioExts = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
	".ogg": true,
}

// Service owns the per-session pipeline: upload/transcribe, extract, edit,
// render, export. Every method loads the snapshot, applies the action's
// replace-or-mutate rule and writes the snapshot back.
type Service struct {
	store       Store
	audio       AudioStore
	transcriber Transcriber
	extractor   Extractor
	logger      *zap.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]bool
}

// NewService constructs a session service
func NewService(store Store, audio AudioStore, transcriber Transcriber, extractor Extractor, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		audio:       audio,
		transcriber: transcriber,
		extractor:   extractor,
		logger:      logger,
		inflight:    make(map[uuid.UUID]bool),
	}
}

// Create starts a new empty session
func (s *Service) Create(ctx context.Context) (*entities.MinutesSession, error) {
	sess := entities.NewMinutesSession()
	s.store.Put(sess)

	if s.logger != nil {
		s.logger.Info("session created", zap.String("session_id", sess.ID.String()))
	}
	return sess, nil
}

// Get returns the current session snapshot
func (s *Service) Get(ctx context.Context, id string) (*entities.MinutesSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}
	return sess, nil
}

// Delete drops the session and its archived audio
func (s *Service) Delete(ctx context.Context, id string) error {
	sess, ok := s.store.Get(id)
	if !ok {
		return errors.ErrSessionNotFound(id)
	}

	if sess.AudioObject != "" && s.audio != nil {
		if err := s.audio.Remove(ctx, sess.AudioObject); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to remove audio object",
					zap.String("object", sess.AudioObject),
					zap.Error(err),
				)
			}
		}
	}

	s.store.Delete(id)
	return nil
}

// ProcessAudio archives the uploaded clip, transcribes it and installs the
// transcript as the session's new raw transcript (wholesale replace; any
// previous extraction and document are invalidated).
func (s *Service) ProcessAudio(ctx context.Context, id string, localPath, filename string, reader io.Reader, size int64) (*entities.MinutesSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedAudioExts[ext] {
		return nil, errors.ErrAudioUnsupportedFormat(ext)
	}

	objectName := fmt.Sprintf("sessions/%s/audio%s", sess.ID, ext)
	audioURL := ""
	if s.audio != nil && reader != nil {
		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := s.audio.UploadFile(ctx, objectName, reader, size, contentType); err != nil {
			return nil, errors.ErrAudioUploadFailed(err)
		}
		sess.SetAudio(objectName, filename)

		url, err := s.audio.PresignedURL(ctx, objectName, time.Hour)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to presign audio URL", zap.Error(err))
			}
		} else {
			audioURL = url
		}
	}

	text, provider, err := s.transcriber.Transcribe(ctx, transcription.Input{Path: localPath, URL: audioURL})
	if err != nil {
		// Keep the archived audio; the transcript action failed, the session
		// snapshot stays as it was.
		s.store.Put(sess)
		return nil, errors.ErrTranscriptionFailed(err)
	}

	sess.ReplaceTranscript(text, provider)
	s.store.Put(sess)

	if s.logger != nil {
		s.logger.Info("transcript installed",
			zap.String("session_id", sess.ID.String()),
			zap.String("provider", provider),
			zap.Int("text_length", len(text)),
		)
	}
	return sess, nil
}

// SetTranscript installs a manually edited raw transcript
func (s *Service) SetTranscript(ctx context.Context, id, text string) (*entities.MinutesSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}

	sess.ReplaceTranscript(text, "manual")
	s.store.Put(sess)
	return sess, nil
}

// ExtractMinutes runs the extractor on the session's raw transcript. Only
// one extraction may be in flight per session; a concurrent request gets a
// conflict error. On backend failure the previous snapshot is untouched.
func (s *Service) ExtractMinutes(ctx context.Context, id string) (*entities.MinutesSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}

	s.mu.Lock()
	if s.inflight[sess.ID] {
		s.mu.Unlock()
		return nil, errors.ErrExtractionInFlight(id)
	}
	s.inflight[sess.ID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, sess.ID)
		s.mu.Unlock()
	}()

	result, err := s.extractor.Extract(ctx, sess.RawTranscript)
	if err != nil {
		return nil, errors.ErrExtractionBackendFailed(err)
	}

	sess.ReplaceExtraction(result)
	s.store.Put(sess)
	return sess, nil
}

// UpdateTopic mutates one topic entry in place, preserving count and order
func (s *Service) UpdateTopic(ctx context.Context, id string, index int, topic, agreement string) (*entities.MinutesSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}

	if err := sess.UpdateTopic(index, topic, agreement); err != nil {
		return nil, errors.ErrTopicIndexOutOfRange(index)
	}
	s.store.Put(sess)
	return sess, nil
}

// RenderDocument renders the minutes document from the current (possibly
// edited) topic list and stores it in the session snapshot
func (s *Service) RenderDocument(ctx context.Context, id string) (*entities.MinutesSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}

	var topics []entities.TopicEntry
	if sess.Extraction != nil {
		topics = sess.Extraction.Topics
	}

	sess.ReplaceDocument(minutes.RenderDocument(topics))
	s.store.Put(sess)
	return sess, nil
}

// Document returns the rendered minutes document for export
func (s *Service) Document(ctx context.Context, id string) (string, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return "", errors.ErrSessionNotFound(id)
	}
	if sess.Document == "" {
		return "", errors.ErrDocumentNotRendered()
	}
	return sess.Document, nil
}

// AudioURL returns a presigned URL for the session's archived audio
func (s *Service) AudioURL(ctx context.Context, id string) (string, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return "", errors.ErrSessionNotFound(id)
	}
	if sess.AudioObject == "" || s.audio == nil {
		return "", errors.ErrInvalidArgument("session has no uploaded audio")
	}

	url, err := s.audio.PresignedURL(ctx, sess.AudioObject, time.Hour)
	if err != nil {
		return "", errors.ErrStorageFailed("presign", err)
	}
	return url, nil
}
