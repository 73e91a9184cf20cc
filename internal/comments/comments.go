// Package comments builds reply trees from flat comment lists and
// implements @mention detection and insertion for the composer.
package comments

import (
	"regexp"
	"strings"

	"github.com/planflow/planboard-api/internal/models"
)

// BuildTree arranges a flat comment list into root nodes with nested
// replies, preserving input order at every level. A comment whose
// parent id does not resolve is promoted to a root rather than
// dropped.
func BuildTree(list []models.TaskComment) []*models.CommentNode {
	nodes := make(map[string]*models.CommentNode, len(list))
	ordered := make([]*models.CommentNode, 0, len(list))
	for _, c := range list {
		n := &models.CommentNode{TaskComment: c}
		nodes[c.ID] = n
		ordered = append(ordered, n)
	}
	var roots []*models.CommentNode
	for _, n := range ordered {
		if n.ParentID != "" {
			if parent, ok := nodes[n.ParentID]; ok && parent != n {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

var mentionPattern = regexp.MustCompile(`@([\w.-]*)$`)

// DetectMention inspects the text before the caret for an @mention
// being typed and returns the partial name after the @. ok is false
// when the caret is not inside a mention.
func DetectMention(text string, caret int) (partial string, ok bool) {
	if caret < 0 || caret > len(text) {
		return "", false
	}
	m := mentionPattern.FindStringSubmatch(text[:caret])
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Suggest filters the known emails to those containing the typed
// partial, case-insensitively. An empty partial matches everyone.
func Suggest(partial string, emails []string) []string {
	partial = strings.ToLower(partial)
	var out []string
	for _, e := range emails {
		if strings.Contains(strings.ToLower(e), partial) {
			out = append(out, e)
		}
	}
	return out
}

// ApplyMention replaces the mention being typed before the caret with
// "@email " and returns the new text and caret position just after the
// inserted mention.
func ApplyMention(text string, caret int, email string) (string, int) {
	if caret < 0 || caret > len(text) {
		caret = len(text)
	}
	before := mentionPattern.ReplaceAllString(text[:caret], "@"+email+" ")
	return before + text[caret:], len(before)
}
