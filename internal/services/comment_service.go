package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/planflow/planboard-api/internal/comments"
	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/store"
)

var (
	ErrCommentContentRequired = errors.New("comment content is required")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrNotCommentAuthor       = errors.New("only the comment author can perform this action")
)

// CommentService handles the comment threads attached to tasks and the
// mention suggestions fed from the user directory.
type CommentService struct {
	store store.Store
	auth  *AuthService
}

// NewCommentService creates a new CommentService.
func NewCommentService(st store.Store, auth *AuthService) *CommentService {
	return &CommentService{store: st, auth: auth}
}

// AddCommentInput carries a new comment or reply.
type AddCommentInput struct {
	TaskID   string
	UserID   string
	UserName string
	Content  string
	ParentID string
}

// Add stores a comment. ParentID empty means a root comment.
func (s *CommentService) Add(input AddCommentInput) (string, error) {
	if strings.TrimSpace(input.Content) == "" {
		return "", ErrCommentContentRequired
	}
	comment := models.TaskComment{
		TaskID:    input.TaskID,
		UserID:    input.UserID,
		UserName:  input.UserName,
		Content:   input.Content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		ParentID:  input.ParentID,
	}
	id, err := s.store.Add(constants.CollectionTaskComments, comment)
	if err != nil {
		return "", fmt.Errorf("failed to add comment: %w", err)
	}
	return id, nil
}

// ListTree returns a task's comments arranged as reply trees, oldest
// first at every level.
func (s *CommentService) ListTree(taskID string) ([]*models.CommentNode, error) {
	q := store.Collection(constants.CollectionTaskComments).Where("taskId", taskID)
	snap, err := s.store.Load(q)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return comments.BuildTree(store.DecodeAll[models.TaskComment](snap)), nil
}

// Edit replaces a comment's content. Only the author may edit.
func (s *CommentService) Edit(id, actorUserID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrCommentContentRequired
	}
	comment, err := s.find(id)
	if err != nil {
		return err
	}
	if comment.UserID != actorUserID {
		return ErrNotCommentAuthor
	}
	return s.store.Update(constants.CollectionTaskComments, id, map[string]any{
		"content": content,
	})
}

// Delete removes a comment. Only the author may delete; replies stay
// and are promoted to roots by tree building.
func (s *CommentService) Delete(id, actorUserID string) error {
	comment, err := s.find(id)
	if err != nil {
		return err
	}
	if comment.UserID != actorUserID {
		return ErrNotCommentAuthor
	}
	return s.store.Delete(constants.CollectionTaskComments, id)
}

func (s *CommentService) find(id string) (*models.TaskComment, error) {
	snap, err := s.store.Load(store.Collection(constants.CollectionTaskComments))
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	for _, c := range store.DecodeAll[models.TaskComment](snap) {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrCommentNotFound
}

// MentionSuggestions returns the directory emails matching the mention
// being typed before the caret, or ok=false when the caret is not on a
// mention.
func (s *CommentService) MentionSuggestions(text string, caret int) ([]string, bool, error) {
	partial, ok := comments.DetectMention(text, caret)
	if !ok {
		return nil, false, nil
	}
	emails, err := s.auth.ListUserEmails()
	if err != nil {
		return nil, false, err
	}
	return comments.Suggest(partial, emails), true, nil
}
