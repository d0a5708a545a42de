package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SinArtur/Sstu-DB/core/client"
)

// MaxUploadFiles is the backend limit of files per material.
const MaxUploadFiles = 20

// MaterialService lists, uploads, rates and moderates study materials.
type MaterialService struct {
	c *client.Client
}

// Rating is an average rating. The backend sends it as a decimal string in
// material bodies and as a number in rate responses.
type Rating float64

// UnmarshalJSON accepts both encodings.
func (r *Rating) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("rating %s: %w", data, err)
	}
	*r = Rating(v)
	return nil
}

// Material is an uploaded set of files attached to a branch.
type Material struct {
	ID                int64          `json:"id"`
	Branch            int64          `json:"branch"`
	BranchName        string         `json:"branch_name"`
	BranchPath        string         `json:"branch_path"`
	Author            int64          `json:"author"`
	AuthorEmail       string         `json:"author_email"`
	AuthorName        string         `json:"author_name"`
	Description       string         `json:"description"`
	Status            Status         `json:"status"`
	StatusDisplay     string         `json:"status_display"`
	ModerationComment string         `json:"moderation_comment"`
	Moderator         *int64         `json:"moderator"`
	ModeratedAt       *time.Time     `json:"moderated_at"`
	AverageRating     Rating         `json:"average_rating"`
	RatingsCount      int            `json:"ratings_count"`
	DownloadsCount    int            `json:"downloads_count"`
	ViewsCount        int            `json:"views_count"`
	Files             []MaterialFile `json:"files"`
	Tags              []Tag          `json:"tags"`
	CommentsCount     int            `json:"comments_count"`
	UserRating        *int           `json:"user_rating"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// MaterialFile is one file of a material.
type MaterialFile struct {
	ID           int64     `json:"id"`
	File         string    `json:"file"`
	FileURL      string    `json:"file_url"`
	OriginalName string    `json:"original_name"`
	FileSize     int64     `json:"file_size"`
	FileSizeMB   float64   `json:"file_size_mb"`
	FileType     string    `json:"file_type"`
	Comment      string    `json:"comment"`
	UploadOrder  int       `json:"upload_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tag is a lowercase material label.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Comment is a top-level comment with its replies.
type Comment struct {
	ID           int64     `json:"id"`
	Material     int64     `json:"material"`
	Author       int64     `json:"author"`
	AuthorEmail  string    `json:"author_email"`
	AuthorName   string    `json:"author_name"`
	Text         string    `json:"text"`
	Parent       *int64    `json:"parent"`
	RepliesCount int       `json:"replies_count"`
	Replies      []Comment `json:"replies"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsDeleted    bool      `json:"is_deleted"`
}

// RateResult is the material's rating after a vote.
type RateResult struct {
	Message       string `json:"message"`
	AverageRating Rating `json:"average_rating"`
	RatingsCount  int    `json:"ratings_count"`
}

// MaterialFilter narrows List. Zero values are not sent.
type MaterialFilter struct {
	Status   Status
	Branch   *int64
	Mine     bool
	Tags     []string
	FileType string
	Page     int
}

func (f MaterialFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Branch != nil {
		q.Set("branch", id(*f.Branch))
	}
	if f.Mine {
		q.Set("my_materials", "true")
	}
	for _, t := range f.Tags {
		q.Add("tags", t)
	}
	if f.FileType != "" {
		q.Set("file_type", f.FileType)
	}
	setPage(q, f.Page)
	return q
}

// UploadFile is one file of an upload.
type UploadFile struct {
	Name    string
	Content io.Reader
	Comment string
}

// UploadParams describes a new material.
type UploadParams struct {
	Branch      int64
	Description string
	Files       []UploadFile
	Tags        []string
}

// List returns one page of materials.
func (s *MaterialService) List(ctx context.Context, f MaterialFilter) (Page[Material], error) {
	var out Page[Material]
	err := s.c.Get(ctx, "/materials/", f.query(), &out)
	return out, err
}

// Get returns a single material.
func (s *MaterialService) Get(ctx context.Context, materialID int64) (*Material, error) {
	var out Material
	if err := s.c.Get(ctx, "/materials/"+id(materialID)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends a new material for moderation as a multipart form.
// The form is buffered so it can be resent after a token refresh.
func (s *MaterialService) Upload(ctx context.Context, p UploadParams) (*Material, error) {
	body, contentType, err := encodeUpload(p)
	if err != nil {
		return nil, err
	}

	req := client.NewRequest(http.MethodPost, "/materials/")
	req.Body = body
	req.ContentType = contentType

	resp, err := s.c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var out Material
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func encodeUpload(p UploadParams) ([]byte, string, error) {
	switch {
	case len(p.Files) == 0:
		return nil, "", ErrNoFiles
	case len(p.Files) > MaxUploadFiles:
		return nil, "", fmt.Errorf("%w: %d of at most %d", ErrTooManyFiles, len(p.Files), MaxUploadFiles)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("branch", id(p.Branch)); err != nil {
		return nil, "", err
	}
	if p.Description != "" {
		if err := w.WriteField("description", p.Description); err != nil {
			return nil, "", err
		}
	}
	for i, f := range p.Files {
		if f.Name == "" || f.Content == nil {
			return nil, "", fmt.Errorf("%w: file %d has no name or content", ErrInvalidFile, i)
		}
		part, err := w.CreateFormFile("files", filepath.Base(f.Name))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("%w: read %s: %w", ErrInvalidFile, f.Name, err)
		}
	}
	for i, f := range p.Files {
		if f.Comment == "" {
			continue
		}
		if err := w.WriteField(fmt.Sprintf("file_comments[%d]", i), f.Comment); err != nil {
			return nil, "", err
		}
	}
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			if err := w.WriteField("tags", t); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Rate stores the current user's rating of an approved material.
func (s *MaterialService) Rate(ctx context.Context, materialID int64, value int) (RateResult, error) {
	if value < 1 || value > 5 {
		return RateResult{}, ErrInvalidRating
	}
	var out RateResult
	err := s.c.Post(ctx, "/materials/"+id(materialID)+"/rate/", map[string]int{"value": value}, &out)
	return out, err
}

// Download bumps the download counter.
func (s *MaterialService) Download(ctx context.Context, materialID int64) error {
	return s.c.Post(ctx, "/materials/"+id(materialID)+"/download/", nil, nil)
}

// View bumps the view counter.
func (s *MaterialService) View(ctx context.Context, materialID int64) error {
	return s.c.Post(ctx, "/materials/"+id(materialID)+"/view/", nil, nil)
}

// Comments returns the top-level comments of a material with their replies.
func (s *MaterialService) Comments(ctx context.Context, materialID int64) ([]Comment, error) {
	var out []Comment
	err := s.c.Get(ctx, "/materials/"+id(materialID)+"/comments/", nil, &out)
	return out, err
}

// Comment posts a comment, or a reply when parent is set.
func (s *MaterialService) Comment(ctx context.Context, materialID int64, text string, parent *int64) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text", ErrEmptyValue)
	}
	in := struct {
		Material int64  `json:"material"`
		Text     string `json:"text"`
		Parent   *int64 `json:"parent,omitempty"`
	}{materialID, text, parent}

	var out Comment
	if err := s.c.Post(ctx, "/materials/comments/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve publishes a pending material. Moderator only.
func (s *MaterialService) Approve(ctx context.Context, materialID int64, comment string) (*Material, error) {
	return s.moderate(ctx, materialID, "approve", comment)
}

// Reject declines a pending material. A comment is mandatory. Moderator only.
func (s *MaterialService) Reject(ctx context.Context, materialID int64, comment string) (*Material, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}
	return s.moderate(ctx, materialID, "reject", comment)
}

func (s *MaterialService) moderate(ctx context.Context, materialID int64, action, comment string) (*Material, error) {
	var out struct {
		Material Material `json:"material"`
	}
	path := "/materials/" + id(materialID) + "/" + action + "/"
	if err := s.c.Post(ctx, path, moderationComment{Comment: comment}, &out); err != nil {
		return nil, err
	}
	return &out.Material, nil
}

// DownloadFile writes one file of a material to w and returns its original name.
func (s *MaterialService) DownloadFile(ctx context.Context, materialID, fileID int64, w io.Writer) (string, error) {
	req := client.NewRequest(http.MethodGet, "/materials/"+id(materialID)+"/files/"+id(fileID)+"/download/")
	req.Header = http.Header{"Accept": {"*/*"}}

	resp, err := s.c.Do(ctx, req)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(resp.Body); err != nil {
		return "", err
	}
	return attachmentName(resp.Header.Get("Content-Disposition")), nil
}

func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
