package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/SinArtur/Sstu-DB/core/client"
)

// BranchType is the level of a node in the university hierarchy.
type BranchType string

const (
	BranchInstitute  BranchType = "institute"
	BranchDepartment BranchType = "department"
	BranchDirection  BranchType = "direction"
	BranchCourse     BranchType = "course"
	BranchTeacher    BranchType = "teacher"
)

// Status is the moderation state shared by branches, branch requests and materials.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// BranchService reads and edits the branch tree and handles branch requests.
type BranchService struct {
	c *client.Client
}

// Branch is a node of the hierarchy with its moderation metadata.
type Branch struct {
	ID                int64      `json:"id"`
	Type              BranchType `json:"type"`
	TypeDisplay       string     `json:"type_display"`
	Name              string     `json:"name"`
	Parent            *int64     `json:"parent"`
	FullPath          string     `json:"full_path"`
	Creator           *int64     `json:"creator"`
	CreatorEmail      string     `json:"creator_email"`
	Status            Status     `json:"status"`
	StatusDisplay     string     `json:"status_display"`
	Moderator         *int64     `json:"moderator"`
	ModeratorEmail    string     `json:"moderator_email"`
	ModerationComment string     `json:"moderation_comment"`
	ModeratedAt       *time.Time `json:"moderated_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ChildrenCount     int        `json:"children_count"`
	MaterialsCount    int        `json:"materials_count"`
}

// TreeNode is an approved branch with its approved descendants.
type TreeNode struct {
	ID             int64      `json:"id"`
	Type           BranchType `json:"type"`
	Name           string     `json:"name"`
	Status         Status     `json:"status"`
	Children       []TreeNode `json:"children"`
	MaterialsCount int        `json:"materials_count"`
}

// BranchRequest is a user's proposal for a new child branch.
type BranchRequest struct {
	ID                int64      `json:"id"`
	Parent            int64      `json:"parent"`
	ParentName        string     `json:"parent_name"`
	ParentPath        string     `json:"parent_path"`
	Name              string     `json:"name"`
	Requester         int64      `json:"requester"`
	RequesterEmail    string     `json:"requester_email"`
	Status            Status     `json:"status"`
	StatusDisplay     string     `json:"status_display"`
	Moderator         *int64     `json:"moderator"`
	ModeratorEmail    string     `json:"moderator_email"`
	ModerationComment string     `json:"moderation_comment"`
	ModeratedAt       *time.Time `json:"moderated_at"`
	CreatedBranch     *int64     `json:"created_branch"`
	CreatedAt         time.Time  `json:"created_at"`
}

// FileHit is a file matched by search, with enough context to open its material.
type FileHit struct {
	ID                  int64  `json:"id"`
	OriginalName        string `json:"original_name"`
	FileSize            int64  `json:"file_size"`
	FileType            string `json:"file_type"`
	Comment             string `json:"comment"`
	MaterialID          int64  `json:"material_id"`
	MaterialDescription string `json:"material_description"`
	BranchID            int64  `json:"branch_id"`
	BranchName          string `json:"branch_name"`
	BranchPath          string `json:"branch_path"`
}

// SearchResult holds up to ten hits of each kind.
type SearchResult struct {
	Branches  []Branch   `json:"branches"`
	Materials []Material `json:"materials"`
	Files     []FileHit  `json:"files"`
}

// BranchFilter narrows List. Zero values are not sent.
type BranchFilter struct {
	Status Status
	Type   BranchType
	Parent *int64
	// Roots lists only top-level branches. Ignored when Parent is set.
	Roots bool
	Page  int
}

func (f BranchFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	switch {
	case f.Parent != nil:
		q.Set("parent", id(*f.Parent))
	case f.Roots:
		q.Set("parent", "")
	}
	setPage(q, f.Page)
	return q
}

// BranchInput is the body of Create and Update.
type BranchInput struct {
	Type   BranchType `json:"type,omitempty"`
	Name   string     `json:"name,omitempty"`
	Parent *int64     `json:"parent,omitempty"`
	Status Status     `json:"status,omitempty"`
}

// Tree returns the approved hierarchy from the institutes down.
func (s *BranchService) Tree(ctx context.Context) ([]TreeNode, error) {
	var out []TreeNode
	err := s.c.Get(ctx, "/branches/tree/", nil, &out)
	return out, err
}

// List returns one page of branches.
func (s *BranchService) List(ctx context.Context, f BranchFilter) (Page[Branch], error) {
	var out Page[Branch]
	err := s.c.Get(ctx, "/branches/", f.query(), &out)
	return out, err
}

// Get returns a single branch.
func (s *BranchService) Get(ctx context.Context, branchID int64) (*Branch, error) {
	var out Branch
	if err := s.c.Get(ctx, "/branches/"+id(branchID)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Children returns the approved children of a branch.
func (s *BranchService) Children(ctx context.Context, branchID int64) ([]Branch, error) {
	var out []Branch
	err := s.c.Get(ctx, "/branches/"+id(branchID)+"/children/", nil, &out)
	return out, err
}

// Search looks for branches, materials and files matching q.
// An empty query returns an empty result without calling the backend.
func (s *BranchService) Search(ctx context.Context, q string) (SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return SearchResult{}, nil
	}
	var out SearchResult
	err := s.c.Get(ctx, "/branches/search/", url.Values{"q": {q}}, &out)
	return out, err
}

// Create adds a branch. Branches created by admins are approved immediately.
func (s *BranchService) Create(ctx context.Context, in BranchInput) (*Branch, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name", ErrEmptyValue)
	}
	var out Branch
	if err := s.c.Post(ctx, "/branches/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes the given fields of a branch.
func (s *BranchService) Update(ctx context.Context, branchID int64, in BranchInput) (*Branch, error) {
	var out Branch
	if err := s.c.Patch(ctx, "/branches/"+id(branchID)+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a branch. Admin only.
func (s *BranchService) Delete(ctx context.Context, branchID int64) error {
	return s.c.Delete(ctx, "/branches/"+id(branchID)+"/", nil)
}

// CreateRequest proposes a new child branch under parent.
func (s *BranchService) CreateRequest(ctx context.Context, parent int64, name string) (*BranchRequest, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name", ErrEmptyValue)
	}
	var out BranchRequest
	err := s.c.Post(ctx, "/branches/requests/", map[string]any{"parent": parent, "name": name}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRequests returns branch requests. Moderators see pending requests of all
// users by default, everyone else only their own.
func (s *BranchService) ListRequests(ctx context.Context, status Status, page int) (Page[BranchRequest], error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	setPage(q, page)
	var out Page[BranchRequest]
	err := s.c.Get(ctx, "/branches/requests/", q, &out)
	return out, err
}

// ApproveRequest accepts a request and returns the created branch. Moderator only.
func (s *BranchService) ApproveRequest(ctx context.Context, requestID int64, comment string) (*Branch, error) {
	var out struct {
		Branch Branch `json:"branch"`
	}
	path := "/branches/requests/" + id(requestID) + "/approve/"
	if err := s.c.Post(ctx, path, moderationComment{Comment: comment}, &out); err != nil {
		return nil, err
	}
	return &out.Branch, nil
}

// RejectRequest declines a request. A comment is mandatory. Moderator only.
func (s *BranchService) RejectRequest(ctx context.Context, requestID int64, comment string) (*BranchRequest, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}
	var out struct {
		Request BranchRequest `json:"request"`
	}
	path := "/branches/requests/" + id(requestID) + "/reject/"
	if err := s.c.Post(ctx, path, moderationComment{Comment: comment}, &out); err != nil {
		return nil, err
	}
	return &out.Request, nil
}
