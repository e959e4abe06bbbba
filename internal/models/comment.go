// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"time"
)

// CommentStatus represents the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
)

// ValidCommentStatus reports whether s is one of the known comment statuses.
func ValidCommentStatus(s string) bool {
	switch CommentStatus(s) {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam:
		return true
	}
	return false
}

// Comment represents a reader comment on a post. Comments form a tree via
// ParentID. Guest comments carry GuestName/GuestEmail instead of a UserID.
type Comment struct {
	ID         int64         `json:"id"`
	PostID     int64         `json:"post_id"`
	ParentID   *int64        `json:"parent_id,omitempty"`
	UserID     *int64        `json:"user_id,omitempty"`
	GuestName  *string       `json:"guest_name,omitempty"`
	GuestEmail *string       `json:"guest_email,omitempty"`
	Content    string        `json:"content"`
	Status     CommentStatus `json:"status"`
	IP         *string       `json:"ip,omitempty"`
	UserAgent  *string       `json:"user_agent,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// UserName is joined in by list queries when UserID is set.
	UserName *string `json:"user_name,omitempty"`
}

// AuthorName returns the display name for the comment author: the linked
// user's name when present, the guest name otherwise.
func (c *Comment) AuthorName() string {
	if c.UserName != nil && *c.UserName != "" {
		return *c.UserName
	}
	if c.GuestName != nil && *c.GuestName != "" {
		return *c.GuestName
	}
	return "Anonymous"
}

// CommentNode is a comment plus its ordered children, for threaded
// rendering. Depth is assigned during the tree walk and exists only for
// display indentation; it is never stored.
type CommentNode struct {
	Comment
	Depth    int            `json:"depth"`
	Children []*CommentNode `json:"children"`
}

// BuildCommentTree arranges a flat comment list into a forest rooted at
// comments with no parent. It uses an arena keyed by id plus a parent→
// children index instead of chasing pointers, so each node is attached at
// most once. A child whose parent is absent from the arena is treated as
// a root. Siblings are ordered by id ascending (insertion order).
func BuildCommentTree(comments []Comment) []*CommentNode {
	arena := make(map[int64]*CommentNode, len(comments))
	for i := range comments {
		arena[comments[i].ID] = &CommentNode{Comment: comments[i]}
	}

	childIDs := make(map[int64][]int64)
	var rootIDs []int64
	for i := range comments {
		c := &comments[i]
		if c.ParentID != nil {
			if _, ok := arena[*c.ParentID]; ok {
				childIDs[*c.ParentID] = append(childIDs[*c.ParentID], c.ID)
				continue
			}
		}
		rootIDs = append(rootIDs, c.ID)
	}

	var attach func(ids []int64, depth int) []*CommentNode
	attach = func(ids []int64, depth int) []*CommentNode {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		nodes := make([]*CommentNode, 0, len(ids))
		for _, id := range ids {
			node := arena[id]
			node.Depth = depth
			node.Children = attach(childIDs[id], depth+1)
			nodes = append(nodes, node)
		}
		return nodes
	}

	return attach(rootIDs, 0)
}
