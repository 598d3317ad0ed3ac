// Package backendtest provides a function-field stub of backend.Client
// for service tests. Unset fields answer with empty results so a test
// only wires the calls it cares about.
package backendtest

import (
	"context"

	"Thrive/internal/backend"
	"Thrive/internal/core/paging"
)

// Stub implements backend.Client via optional function fields.
type Stub struct {
	ListGroupsFunc        func(ctx context.Context, page paging.Page) (*backend.GroupPage, error)
	GetGroupFunc          func(ctx context.Context, groupID string) (*backend.Group, error)
	JoinGroupFunc         func(ctx context.Context, groupID string) (*backend.MembershipResult, error)
	LeaveGroupFunc        func(ctx context.Context, groupID string) error
	ListPostsFunc         func(ctx context.Context, groupID string, params backend.ListPostsParams) (*backend.PostPage, error)
	CreatePostFunc        func(ctx context.Context, req backend.CreatePostRequest) (*backend.Post, error)
	EditPostFunc          func(ctx context.Context, postID string, req backend.EditPostRequest) (*backend.Post, error)
	DeletePostFunc        func(ctx context.Context, postID string) error
	ListCommentsFunc      func(ctx context.Context, postID string, page paging.Page) (*backend.CommentPage, error)
	CreateCommentFunc     func(ctx context.Context, postID, text string) (*backend.Comment, error)
	EditCommentFunc       func(ctx context.Context, commentID, text string) (*backend.Comment, error)
	DeleteCommentFunc     func(ctx context.Context, commentID string) error
	ListReactionTypesFunc func(ctx context.Context) ([]backend.ReactionType, error)
	ListReactionsFunc     func(ctx context.Context, postID string) ([]backend.Reaction, error)
	SetReactionFunc       func(ctx context.Context, postID, typeID string) (*backend.Reaction, error)
	RemoveReactionFunc    func(ctx context.Context, postID string) error
	ListReportReasonsFunc func(ctx context.Context) ([]backend.ReportReason, error)
	CreateReportFunc      func(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error)
}

var _ backend.Client = (*Stub)(nil)

func (s *Stub) ListGroups(ctx context.Context, page paging.Page) (*backend.GroupPage, error) {
	if s.ListGroupsFunc != nil {
		return s.ListGroupsFunc(ctx, page)
	}
	return &backend.GroupPage{}, nil
}

func (s *Stub) GetGroup(ctx context.Context, groupID string) (*backend.Group, error) {
	if s.GetGroupFunc != nil {
		return s.GetGroupFunc(ctx, groupID)
	}
	return &backend.Group{ID: groupID}, nil
}

func (s *Stub) JoinGroup(ctx context.Context, groupID string) (*backend.MembershipResult, error) {
	if s.JoinGroupFunc != nil {
		return s.JoinGroupFunc(ctx, groupID)
	}
	return &backend.MembershipResult{GroupID: groupID, Status: "joined"}, nil
}

func (s *Stub) LeaveGroup(ctx context.Context, groupID string) error {
	if s.LeaveGroupFunc != nil {
		return s.LeaveGroupFunc(ctx, groupID)
	}
	return nil
}

func (s *Stub) ListPosts(ctx context.Context, groupID string, params backend.ListPostsParams) (*backend.PostPage, error) {
	if s.ListPostsFunc != nil {
		return s.ListPostsFunc(ctx, groupID, params)
	}
	return &backend.PostPage{}, nil
}

func (s *Stub) CreatePost(ctx context.Context, req backend.CreatePostRequest) (*backend.Post, error) {
	if s.CreatePostFunc != nil {
		return s.CreatePostFunc(ctx, req)
	}
	return &backend.Post{}, nil
}

func (s *Stub) EditPost(ctx context.Context, postID string, req backend.EditPostRequest) (*backend.Post, error) {
	if s.EditPostFunc != nil {
		return s.EditPostFunc(ctx, postID, req)
	}
	return &backend.Post{ID: postID}, nil
}

func (s *Stub) DeletePost(ctx context.Context, postID string) error {
	if s.DeletePostFunc != nil {
		return s.DeletePostFunc(ctx, postID)
	}
	return nil
}

func (s *Stub) ListComments(ctx context.Context, postID string, page paging.Page) (*backend.CommentPage, error) {
	if s.ListCommentsFunc != nil {
		return s.ListCommentsFunc(ctx, postID, page)
	}
	return &backend.CommentPage{}, nil
}

func (s *Stub) CreateComment(ctx context.Context, postID, text string) (*backend.Comment, error) {
	if s.CreateCommentFunc != nil {
		return s.CreateCommentFunc(ctx, postID, text)
	}
	return &backend.Comment{PostID: postID, Text: text}, nil
}

func (s *Stub) EditComment(ctx context.Context, commentID, text string) (*backend.Comment, error) {
	if s.EditCommentFunc != nil {
		return s.EditCommentFunc(ctx, commentID, text)
	}
	return &backend.Comment{ID: commentID, Text: text}, nil
}

func (s *Stub) DeleteComment(ctx context.Context, commentID string) error {
	if s.DeleteCommentFunc != nil {
		return s.DeleteCommentFunc(ctx, commentID)
	}
	return nil
}

func (s *Stub) ListReactionTypes(ctx context.Context) ([]backend.ReactionType, error) {
	if s.ListReactionTypesFunc != nil {
		return s.ListReactionTypesFunc(ctx)
	}
	return nil, nil
}

func (s *Stub) ListReactions(ctx context.Context, postID string) ([]backend.Reaction, error) {
	if s.ListReactionsFunc != nil {
		return s.ListReactionsFunc(ctx, postID)
	}
	return nil, nil
}

func (s *Stub) SetReaction(ctx context.Context, postID, typeID string) (*backend.Reaction, error) {
	if s.SetReactionFunc != nil {
		return s.SetReactionFunc(ctx, postID, typeID)
	}
	return &backend.Reaction{PostID: postID, TypeID: typeID}, nil
}

func (s *Stub) RemoveReaction(ctx context.Context, postID string) error {
	if s.RemoveReactionFunc != nil {
		return s.RemoveReactionFunc(ctx, postID)
	}
	return nil
}

func (s *Stub) ListReportReasons(ctx context.Context) ([]backend.ReportReason, error) {
	if s.ListReportReasonsFunc != nil {
		return s.ListReportReasonsFunc(ctx)
	}
	return nil, nil
}

func (s *Stub) CreateReport(ctx context.Context, req backend.CreateReportRequest) (*backend.Report, error) {
	if s.CreateReportFunc != nil {
		return s.CreateReportFunc(ctx, req)
	}
	return &backend.Report{PostID: req.PostID, ReasonID: req.ReasonID, Status: "sent"}, nil
}
