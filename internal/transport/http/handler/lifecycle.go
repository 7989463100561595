package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmind/internal/app"
	"eventmind/internal/transport/http/response"
)

type LifecycleHandler struct {
	lifecycleService *app.LifecycleService
}

func NewLifecycleHandler(lifecycleService *app.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycleService: lifecycleService}
}

type EndEventRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type EndEventResponse struct {
	Success      bool             `json:"success"`
	DeletedItems EndEventDeletion `json:"deleted_items"`
}

type EndEventDeletion struct {
	Participants   int  `json:"participants"`
	Documents      int  `json:"documents"`
	Stories        int  `json:"stories"`
	StorageFiles   int  `json:"storage_files"`
	VectorsDeleted bool `json:"vectors_deleted"`
}

func (h *LifecycleHandler) EndEvent(c *gin.Context) {
	callerID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	eventID := c.Param("id")
	var req EndEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if req.UserID != callerID {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "caller identity mismatch")
		return
	}

	report, err := h.lifecycleService.EndEvent(c.Request.Context(), eventID, callerID)
	if err != nil {
		h.writeError(c, err, "end event failed")
		return
	}

	response.OK(c, EndEventResponse{
		Success: true,
		DeletedItems: EndEventDeletion{
			Participants:   report.Participants,
			Documents:      report.Documents,
			Stories:        report.Stories,
			StorageFiles:   report.StorageFiles,
			VectorsDeleted: report.VectorsDeleted,
		},
	})
}

type DeleteExpiredRequest struct {
	ForceDelete bool `json:"force_delete"`
}

type DeleteExpiredResponse struct {
	Success bool                `json:"success"`
	Result  DeleteExpiredResult `json:"result"`
}

type DeleteExpiredResult struct {
	DeletedStories int      `json:"deleted_stories"`
	DeletedSnaps   int      `json:"deleted_snaps"`
	DeletedAssets  int      `json:"deleted_assets"`
	DeletedVectors bool     `json:"deleted_vectors"`
	Errors         []string `json:"errors"`
}

func (h *LifecycleHandler) DeleteExpiredContent(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	eventID := c.Param("id")
	// force_delete is optional; a missing body means a plain expiry check.
	var req DeleteExpiredRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	report, err := h.lifecycleService.DeleteExpiredContent(c.Request.Context(), eventID, req.ForceDelete)
	if err != nil {
		h.writeError(c, err, "delete expired content failed")
		return
	}

	response.OK(c, DeleteExpiredResponse{
		Success: true,
		Result: DeleteExpiredResult{
			DeletedStories: report.Stories,
			DeletedSnaps:   report.Snaps,
			DeletedAssets:  report.Documents,
			DeletedVectors: report.VectorsDeleted,
			Errors:         report.Errors,
		},
	})
}

func (h *LifecycleHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
