package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setupCommentService(t *testing.T) *CommentService {
	t.Helper()
	auth, st := setupAuthService(t)
	return NewCommentService(st, auth)
}

func addComment(t *testing.T, svc *CommentService, userID, content, parentID string) string {
	t.Helper()
	id, err := svc.Add(AddCommentInput{
		TaskID:   "task1",
		UserID:   userID,
		UserName: userID + "@example.com",
		Content:  content,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return id
}

func TestCommentService_AddAndListTree(t *testing.T) {
	svc := setupCommentService(t)

	rootID := addComment(t, svc, "1", "first", "")
	addComment(t, svc, "2", "a reply", rootID)

	tree, err := svc.ListTree("task1")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, "first", tree[0].Content)
	require.NotEmpty(t, tree[0].CreatedAt)
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "a reply", tree[0].Replies[0].Content)
}

func TestCommentService_AddRequiresContent(t *testing.T) {
	svc := setupCommentService(t)

	_, err := svc.Add(AddCommentInput{TaskID: "task1", UserID: "1", Content: "   "})
	require.ErrorIs(t, err, ErrCommentContentRequired)
}

func TestCommentService_EditOnlyByAuthor(t *testing.T) {
	svc := setupCommentService(t)
	id := addComment(t, svc, "1", "original", "")

	require.ErrorIs(t, svc.Edit(id, "2", "hijacked"), ErrNotCommentAuthor)
	require.NoError(t, svc.Edit(id, "1", "edited"))

	tree, err := svc.ListTree("task1")
	require.NoError(t, err)
	require.Equal(t, "edited", tree[0].Content)

	require.ErrorIs(t, svc.Edit("missing", "1", "x"), ErrCommentNotFound)
}

func TestCommentService_DeletePromotesReplies(t *testing.T) {
	svc := setupCommentService(t)

	rootID := addComment(t, svc, "1", "root", "")
	addComment(t, svc, "2", "reply", rootID)

	require.ErrorIs(t, svc.Delete(rootID, "2"), ErrNotCommentAuthor)
	require.NoError(t, svc.Delete(rootID, "1"))

	tree, err := svc.ListTree("task1")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, "reply", tree[0].Content)
	require.Empty(t, tree[0].Replies)
}

func TestCommentService_MentionSuggestions(t *testing.T) {
	auth, st := setupAuthService(t)
	svc := NewCommentService(st, auth)

	_, err := auth.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, err = auth.Signup(SignupInput{Email: "bob@example.com", Password: "supersecret"})
	require.NoError(t, err)

	suggestions, active, err := svc.MentionSuggestions("Hello @ali", 10)
	require.NoError(t, err)
	require.True(t, active)
	require.Equal(t, []string{"alice@example.com"}, suggestions)

	_, active, err = svc.MentionSuggestions("no mention here", 15)
	require.NoError(t, err)
	require.False(t, active)
}
