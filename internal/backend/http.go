package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Thrive/internal/core/paging"
)

// expiryLeeway is how close to its exp claim a token is treated as expired,
// to absorb clock skew between client and server.
const expiryLeeway = 30 * time.Second

// HTTPClient implements Client over the platform's REST API.
// It attaches bearer tokens from a TokenSource, refreshes once on 401, and
// maps response status codes to this package's typed errors.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a backend client for the given base URL.
func NewHTTPClient(baseURL string, tokens TokenSource, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

// apiError is the error envelope the platform returns on non-2xx responses.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do executes one authenticated request and returns the response body.
// A 401 triggers a single token refresh and retry; a second 401 propagates
// as ErrUnauthorized.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	if tokenExpired(token, expiryLeeway) {
		c.logger.Debug("access token expired, refreshing before request", "path", path)
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: token refresh failed: %v", ErrUnauthorized, err)
		}
	}

	respBody, status, err := c.send(ctx, method, path, query, body, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.logger.Debug("request rejected with 401, refreshing token and retrying", "path", path)
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: token refresh failed: %v", ErrUnauthorized, err)
		}
		respBody, status, err = c.send(ctx, method, path, query, body, token)
		if err != nil {
			return nil, err
		}
	}

	if status >= 200 && status < 300 {
		return respBody, nil
	}
	return nil, wrapStatusError(status, respBody, method+" "+path)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, body any, token string) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// wrapStatusError maps a non-2xx status to this package's typed errors.
// This allows callers to use errors.Is() for reliable error detection.
func wrapStatusError(status int, body []byte, operation string) error {
	message := ""
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil {
		if ae.Message != "" {
			message = ae.Message
		} else {
			message = ae.Error
		}
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w: %s", operation, ErrBadRequest, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w: %s", operation, ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", operation, ErrForbidden, message)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w: %s", operation, ErrNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w: %s", operation, ErrConflict, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %s", operation, ErrRateLimited, message)
	}
	return fmt.Errorf("%s failed with status %d: %s", operation, status, message)
}

func pageQuery(page paging.Page) url.Values {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(page.Number))
	q.Set("pageSize", strconv.Itoa(page.Size))
	return q
}

// ListGroups returns a page of the group directory.
func (c *HTTPClient) ListGroups(ctx context.Context, page paging.Page) (*GroupPage, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/groups", pageQuery(page), nil)
	if err != nil {
		return nil, err
	}
	items, info, err := decodePage[Group](body)
	if err != nil {
		return nil, fmt.Errorf("listGroups: %w", err)
	}
	return &GroupPage{Items: items, Info: info}, nil
}

// GetGroup retrieves a single group by id.
func (c *HTTPClient) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/groups/"+url.PathEscape(groupID), nil, nil)
	if err != nil {
		return nil, err
	}
	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, fmt.Errorf("getGroup: failed to decode response: %w", err)
	}
	return &group, nil
}

// JoinGroup requests membership in a group.
func (c *HTTPClient) JoinGroup(ctx context.Context, groupID string) (*MembershipResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/groups/"+url.PathEscape(groupID)+"/join", nil, nil)
	if err != nil {
		return nil, err
	}
	var result MembershipResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("joinGroup: failed to decode response: %w", err)
	}
	return &result, nil
}

// LeaveGroup withdraws membership from a group.
func (c *HTTPClient) LeaveGroup(ctx context.Context, groupID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/groups/"+url.PathEscape(groupID)+"/leave", nil, nil)
	return err
}

// ListPosts returns a filtered page of a group's posts.
func (c *HTTPClient) ListPosts(ctx context.Context, groupID string, params ListPostsParams) (*PostPage, error) {
	q := pageQuery(params.Page)
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.From != "" {
		q.Set("from", params.From)
	}
	if params.To != "" {
		q.Set("to", params.To)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/groups/"+url.PathEscape(groupID)+"/posts", q, nil)
	if err != nil {
		return nil, err
	}
	items, info, err := decodePage[Post](body)
	if err != nil {
		return nil, fmt.Errorf("listPosts: %w", err)
	}
	return &PostPage{Items: items, Info: info}, nil
}

// CreatePost publishes a new post in a group.
func (c *HTTPClient) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/posts", nil, req)
	if err != nil {
		return nil, err
	}
	var post Post
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, fmt.Errorf("createPost: failed to decode response: %w", err)
	}
	return &post, nil
}

// EditPost updates a post's content.
func (c *HTTPClient) EditPost(ctx context.Context, postID string, req EditPostRequest) (*Post, error) {
	body, err := c.do(ctx, http.MethodPatch, "/api/posts/"+url.PathEscape(postID), nil, req)
	if err != nil {
		return nil, err
	}
	var post Post
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, fmt.Errorf("editPost: failed to decode response: %w", err)
	}
	return &post, nil
}

// DeletePost removes a post.
func (c *HTTPClient) DeletePost(ctx context.Context, postID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID), nil, nil)
	return err
}

// ListComments returns a page of a post's comments.
func (c *HTTPClient) ListComments(ctx context.Context, postID string, page paging.Page) (*CommentPage, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID)+"/comments", pageQuery(page), nil)
	if err != nil {
		return nil, err
	}
	items, info, err := decodePage[Comment](body)
	if err != nil {
		return nil, fmt.Errorf("listComments: %w", err)
	}
	return &CommentPage{Items: items, Info: info}, nil
}

// CreateComment adds a comment to a post.
func (c *HTTPClient) CreateComment(ctx context.Context, postID, text string) (*Comment, error) {
	payload := map[string]string{"text": text}
	body, err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", nil, payload)
	if err != nil {
		return nil, err
	}
	var comment Comment
	if err := json.Unmarshal(body, &comment); err != nil {
		return nil, fmt.Errorf("createComment: failed to decode response: %w", err)
	}
	return &comment, nil
}

// EditComment updates a comment's text.
func (c *HTTPClient) EditComment(ctx context.Context, commentID, text string) (*Comment, error) {
	payload := map[string]string{"text": text}
	body, err := c.do(ctx, http.MethodPatch, "/api/comments/"+url.PathEscape(commentID), nil, payload)
	if err != nil {
		return nil, err
	}
	var comment Comment
	if err := json.Unmarshal(body, &comment); err != nil {
		return nil, fmt.Errorf("editComment: failed to decode response: %w", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *HTTPClient) DeleteComment(ctx context.Context, commentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(commentID), nil, nil)
	return err
}

// ListReactionTypes returns the reference list of reaction types.
func (c *HTTPClient) ListReactionTypes(ctx context.Context) ([]ReactionType, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/reaction-types", nil, nil)
	if err != nil {
		return nil, err
	}
	items, _, err := decodePage[ReactionType](body)
	if err != nil {
		return nil, fmt.Errorf("listReactionTypes: %w", err)
	}
	return items, nil
}

// ListReactions returns all reactions on a post.
func (c *HTTPClient) ListReactions(ctx context.Context, postID string) ([]Reaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID)+"/reactions", nil, nil)
	if err != nil {
		return nil, err
	}
	items, _, err := decodePage[Reaction](body)
	if err != nil {
		return nil, fmt.Errorf("listReactions: %w", err)
	}
	return items, nil
}

// SetReaction creates or replaces the caller's reaction on a post.
func (c *HTTPClient) SetReaction(ctx context.Context, postID, typeID string) (*Reaction, error) {
	payload := map[string]string{"typeId": typeID}
	body, err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(postID)+"/reaction", nil, payload)
	if err != nil {
		return nil, err
	}
	var reaction Reaction
	if err := json.Unmarshal(body, &reaction); err != nil {
		return nil, fmt.Errorf("setReaction: failed to decode response: %w", err)
	}
	return &reaction, nil
}

// RemoveReaction withdraws the caller's reaction from a post.
func (c *HTTPClient) RemoveReaction(ctx context.Context, postID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID)+"/reaction", nil, nil)
	return err
}

// ListReportReasons returns the reference list of report reasons.
func (c *HTTPClient) ListReportReasons(ctx context.Context) ([]ReportReason, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/report-reasons", nil, nil)
	if err != nil {
		return nil, err
	}
	items, _, err := decodePage[ReportReason](body)
	if err != nil {
		return nil, fmt.Errorf("listReportReasons: %w", err)
	}
	return items, nil
}

// CreateReport files a report against a post.
func (c *HTTPClient) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/reports", nil, req)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("createReport: failed to decode response: %w", err)
	}
	return &report, nil
}
