package models

// TaskComment is one comment on a task. ParentID links replies into a
// tree; a comment whose parent is not present in the snapshot renders
// as a root.
type TaskComment struct {
	ID        string `json:"id,omitempty"`
	TaskID    string `json:"taskId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	ParentID  string `json:"parentId,omitempty"`
}

// CommentNode is a comment with its resolved replies.
type CommentNode struct {
	TaskComment
	Replies []*CommentNode `json:"replies"`
}
