package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planflow/planboard-api/internal/comments"
	apierrors "github.com/planflow/planboard-api/internal/errors"
	"github.com/planflow/planboard-api/internal/middleware"
	"github.com/planflow/planboard-api/internal/services"
)

// CommentHandler serves task comment threads and mention suggestions.
type CommentHandler struct {
	commentService *services.CommentService
	authService    *services.AuthService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService, authService *services.AuthService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authService:    authService,
	}
}

func (h *CommentHandler) currentUser(c *gin.Context) (uid, email string, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", "", false
	}
	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", "", false
	}
	return services.UID(user.ID), user.Email, true
}

// ListComments returns a task's comments as reply trees.
func (h *CommentHandler) ListComments(c *gin.Context) {
	tree, err := h.commentService.ListTree(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": tree})
}

// AddComment stores a comment or reply on a task, attributed to the
// session user.
func (h *CommentHandler) AddComment(c *gin.Context) {
	type AddCommentRequest struct {
		Content  string `json:"content" binding:"required"`
		ParentID string `json:"parentId"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	uid, email, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, err := h.commentService.Add(services.AddCommentInput{
		TaskID:   c.Param("id"),
		UserID:   uid,
		UserName: email,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// EditComment replaces a comment's content.
func (h *CommentHandler) EditComment(c *gin.Context) {
	type EditCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	uid, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.commentService.Edit(c.Param("commentId"), uid, req.Content); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

// DeleteComment removes a comment.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	uid, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Param("commentId"), uid); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// MentionSuggestions returns directory emails matching the mention
// being typed at the caret.
func (h *CommentHandler) MentionSuggestions(c *gin.Context) {
	type MentionRequest struct {
		Text  string `json:"text"`
		Caret *int   `json:"caret" binding:"required"`
	}

	var req MentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, active, err := h.commentService.MentionSuggestions(req.Text, *req.Caret)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"active":      active,
		"suggestions": suggestions,
	})
}

// ApplyMention splices the chosen email over the mention being typed
// and returns the new text and caret.
func (h *CommentHandler) ApplyMention(c *gin.Context) {
	type ApplyMentionRequest struct {
		Text  string `json:"text"`
		Caret *int   `json:"caret" binding:"required"`
		Email string `json:"email" binding:"required"`
	}

	var req ApplyMentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	text, caret := comments.ApplyMention(req.Text, *req.Caret, req.Email)
	c.JSON(http.StatusOK, gin.H{
		"text":  text,
		"caret": caret,
	})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentContentRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
