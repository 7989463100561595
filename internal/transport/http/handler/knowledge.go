package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmind/internal/app"
	"eventmind/internal/transport/http/response"
)

type KnowledgeHandler struct {
	ingestService *app.IngestService
	answerService *app.AnswerService
}

func NewKnowledgeHandler(ingestService *app.IngestService, answerService *app.AnswerService) *KnowledgeHandler {
	return &KnowledgeHandler{
		ingestService: ingestService,
		answerService: answerService,
	}
}

type IngestDocumentRequest struct {
	EventID     string `json:"event_id" binding:"required"`
	StoragePath string `json:"storage_path" binding:"required"`
	// Optional; the type recorded by the object store is used when absent.
	ContentType string `json:"content_type"`
}

type IngestDocumentResponse struct {
	Success bool `json:"success"`
	Chunks  int  `json:"chunks"`
}

func (h *KnowledgeHandler) IngestDocument(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req IngestDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		EventID:     req.EventID,
		StoragePath: req.StoragePath,
		ContentType: req.ContentType,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmptyContent), errors.Is(err, app.ErrExtraction):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed")
		}
		return
	}

	response.OK(c, IngestDocumentResponse{Success: true, Chunks: result.Chunks})
}

type AskQuestionRequest struct {
	EventID  string `json:"event_id" binding:"required"`
	UserID   uint   `json:"user_id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

func (h *KnowledgeHandler) AskQuestion(c *gin.Context) {
	callerID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if req.UserID != callerID {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "caller identity mismatch")
		return
	}

	result, err := h.answerService.Answer(c.Request.Context(), app.AnswerInput{
		EventID:  req.EventID,
		UserID:   req.UserID,
		Question: req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrPermissionDenied):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "answer failed")
		}
		return
	}

	response.OK(c, result)
}
