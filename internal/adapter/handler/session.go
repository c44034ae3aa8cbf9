package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prasetyadev/notulen-assistant/errors"
	dto "github.com/prasetyadev/notulen-assistant/internal/adapter/dto/session"
	sessionUsecase "github.com/prasetyadev/notulen-assistant/internal/usecase/session"
	"github.com/prasetyadev/notulen-assistant/pkg/jwt"
)

// documentFilename is the name the rendered minutes document downloads as
const documentFilename = "MOM.md"

// Session handles the session lifecycle endpoints
type Session struct {
	svc    *sessionUsecase.Service
	tokens *jwt.Manager
	logger *zap.Logger
}

// NewSession creates a new session handler
func NewSession(svc *sessionUsecase.Service, tokens *jwt.Manager, logger *zap.Logger) *Session {
	return &Session{svc: svc, tokens: tokens, logger: logger}
}

// Create starts a new session
// @Summary      Create session
// @Description  Starts a new empty minutes session and returns its bearer token
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Session created"
// @Router       /sessions [post]
func (h *Session) Create(c echo.Context) error {
	sess, err := h.svc.Create(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	token, err := h.tokens.IssueSessionToken(sess.ID.String())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, dto.CreateSessionResponse{
		SessionID: sess.ID.String(),
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokens.Expiry()),
	})
}

// Get returns the current session snapshot
// @Summary      Get session
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id} [get]
func (h *Session) Get(c echo.Context) error {
	sess, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.FromEntity(sess))
}

// Delete drops the session and its archived audio
// @Summary      Delete session
// @Tags         Sessions
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions/{id} [delete]
func (h *Session) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"deleted": true})
}

// UploadAudio accepts a multipart audio clip, transcribes it and installs
// the transcript as the session's raw transcript
// @Summary      Upload audio
// @Description  Transcribes the uploaded clip and replaces the session transcript
// @Tags         Sessions
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Session ID (UUID)"
// @Param        file  formData  file    true  "Audio clip (wav, mp3, m4a, ogg)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Unsupported audio format"
// @Failure      502  {object}  map[string]interface{}  "Transcription failed"
// @Router       /sessions/{id}/audio [post]
func (h *Session) UploadAudio(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrAudioUploadFailed(err))
	}
	defer src.Close()

	// Spool the clip to a temp file so both the archive upload and the local
	// transcription provider can read it.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrAudioUploadFailed(err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return HandleError(h.logger, c, errors.ErrAudioUploadFailed(err))
	}
	if err := tmp.Close(); err != nil {
		return HandleError(h.logger, c, errors.ErrAudioUploadFailed(err))
	}

	clip, err := os.Open(tmpPath)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrAudioUploadFailed(err))
	}
	defer clip.Close()

	sess, err := h.svc.ProcessAudio(c.Request().Context(), c.Param("id"), tmpPath, fileHeader.Filename, clip, fileHeader.Size)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.FromEntity(sess))
}

// AudioURL returns a presigned download URL for the archived clip
// @Summary      Get audio URL
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions/{id}/audio [get]
func (h *Session) AudioURL(c echo.Context) error {
	url, err := h.svc.AudioURL(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.AudioURLResponse{URL: url})
}

// GetTranscript returns the session's raw transcript
// @Summary      Get transcript
// @Tags         Transcript
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions/{id}/transcript [get]
func (h *Session) GetTranscript(c echo.Context) error {
	sess, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.TranscriptResponse{
		Transcript: sess.RawTranscript,
		Provider:   sess.Provider,
	})
}

// SetTranscript replaces the raw transcript with a manual edit
// @Summary      Set transcript
// @Description  Replaces the raw transcript wholesale, invalidating any derived extraction and document
// @Tags         Transcript
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Session ID (UUID)"
// @Param        request  body  object{transcript=string}    true  "New transcript"
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions/{id}/transcript [put]
func (h *Session) SetTranscript(c echo.Context) error {
	var req dto.SetTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	sess, err := h.svc.SetTranscript(c.Request().Context(), c.Param("id"), req.Transcript)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.FromEntity(sess))
}

// ExtractMinutes runs the correct-and-structure pipeline on the transcript
// @Summary      Extract minutes
// @Description  Corrects the transcript and structures it into topics with agreements
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}  "Extraction already in progress"
// @Failure      502  {object}  map[string]interface{}  "Generative backend failed"
// @Router       /sessions/{id}/minutes [post]
func (h *Session) ExtractMinutes(c echo.Context) error {
	sess, err := h.svc.ExtractMinutes(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.FromEntity(sess))
}

// GetMinutes returns the current extraction result
// @Summary      Get minutes
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "No extraction result"
// @Router       /sessions/{id}/minutes [get]
func (h *Session) GetMinutes(c echo.Context) error {
	sess, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if sess.Extraction == nil {
		return HandleError(h.logger, c, errors.ErrExtractionNotFound())
	}
	return HandleSuccess(h.logger, c, dto.FromEntity(sess).Extraction)
}

// UpdateTopic edits one topic entry in place
// @Summary      Update topic
// @Description  Mutates a single topic entry; count and order of entries never change
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                                    true  "Session ID (UUID)"
// @Param        index    path  int                                       true  "Topic index (0-based)"
// @Param        request  body  object{topic=string,kesepakatan=string}  true  "New topic values"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Topic index out of range"
// @Router       /sessions/{id}/minutes/topics/{index} [put]
func (h *Session) UpdateTopic(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("topic index must be an integer"))
	}

	var req dto.UpdateTopicRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	sess, err := h.svc.UpdateTopic(c.Request().Context(), c.Param("id"), index, req.Topic, req.Agreement)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.FromEntity(sess))
}

// RenderDocument renders the minutes document from the current topic list
// @Summary      Render document
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions/{id}/minutes/document [post]
func (h *Session) RenderDocument(c echo.Context) error {
	sess, err := h.svc.RenderDocument(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dto.DocumentResponse{Document: sess.Document})
}

// DownloadDocument streams the rendered minutes document as a markdown file
// @Summary      Download document
// @Tags         Minutes
// @Produce      plain
// @Security     BearerAuth
// @Param        id  path  string  true  "Session ID (UUID)"
// @Success      200  {string}  string  "Markdown document"
// @Failure      404  {object}  map[string]interface{}  "Document not rendered yet"
// @Router       /sessions/{id}/minutes/document [get]
func (h *Session) DownloadDocument(c echo.Context) error {
	doc, err := h.svc.Document(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", documentFilename))
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
}
