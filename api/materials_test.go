package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/api"
	"github.com/SinArtur/Sstu-DB/core/session"
)

func TestRating_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{`"4.50"`, 4.5},
		{`3.25`, 3.25},
		{`"0.00"`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		var r api.Rating
		require.NoError(t, json.Unmarshal([]byte(tt.in), &r), tt.in)
		assert.InDelta(t, tt.want, float64(r), 0.0001, tt.in)
	}

	var r api.Rating
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &r))
}

func TestMaterials_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, respond(http.StatusOK, `{"count":1,"next":null,"previous":null,"results":[
		{"id":4,"branch":2,"description":"Конспект","status":"approved","average_rating":"5.00","ratings_count":1,
		 "files":[{"id":8,"original_name":"lec.pdf","file_size":2048,"file_type":"pdf"}],
		 "tags":[{"id":1,"name":"экзамен"}],"user_rating":null}
	]}`))
	loggedIn(mgr)

	page, err := svc.Materials.List(ctx, api.MaterialFilter{
		Branch: session.Ptr(int64(2)),
		Status: api.StatusApproved,
		Mine:   true,
		Tags:   []string{"экзамен", "лекции"},
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	m := page.Results[0]
	assert.InDelta(t, 5.0, float64(m.AverageRating), 0.001)
	assert.Nil(t, m.UserRating)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "pdf", m.Files[0].FileType)

	q := (<-calls).Query
	assert.Contains(t, q, "branch=2")
	assert.Contains(t, q, "my_materials=true")
	assert.Equal(t, 2, strings.Count(q, "tags="))
}

func TestMaterials_Upload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("multipart form", func(t *testing.T) {
		t.Parallel()
		type seen struct {
			fields map[string][]string
			files  map[string]string
		}
		got := make(chan seen, 1)

		svc, mgr, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s := seen{fields: r.MultipartForm.Value, files: map[string]string{}}
			for _, fh := range r.MultipartForm.File["files"] {
				f, err := fh.Open()
				if err != nil {
					continue
				}
				data, _ := io.ReadAll(f)
				_ = f.Close()
				s.files[fh.Filename] = string(data)
			}
			got <- s
			writeJSON(w, http.StatusCreated, map[string]any{"id": 30, "status": "pending", "branch": 2})
		})
		loggedIn(mgr)

		m, err := svc.Materials.Upload(ctx, api.UploadParams{
			Branch:      2,
			Description: "Билеты к экзамену",
			Files: []api.UploadFile{
				{Name: "/tmp/tickets.pdf", Content: strings.NewReader("pdf-bytes")},
				{Name: "answers.docx", Content: bytes.NewReader([]byte("docx-bytes")), Comment: "ответы"},
			},
			Tags: []string{"экзамен", " "},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(30), m.ID)
		assert.Equal(t, api.StatusPending, m.Status)

		s := <-got
		assert.Equal(t, []string{"2"}, s.fields["branch"])
		assert.Equal(t, []string{"Билеты к экзамену"}, s.fields["description"])
		assert.Equal(t, []string{"ответы"}, s.fields["file_comments[1]"])
		assert.NotContains(t, s.fields, "file_comments[0]")
		assert.Equal(t, []string{"экзамен"}, s.fields["tags"])
		assert.Equal(t, map[string]string{"tickets.pdf": "pdf-bytes", "answers.docx": "docx-bytes"}, s.files)
	})

	t.Run("file count limits", func(t *testing.T) {
		t.Parallel()
		svc, _, calls := newAPI(t, respond(http.StatusCreated, `{}`))

		_, err := svc.Materials.Upload(ctx, api.UploadParams{Branch: 1})
		assert.ErrorIs(t, err, api.ErrNoFiles)

		files := make([]api.UploadFile, api.MaxUploadFiles+1)
		for i := range files {
			files[i] = api.UploadFile{Name: "f.txt", Content: strings.NewReader("x")}
		}
		_, err = svc.Materials.Upload(ctx, api.UploadParams{Branch: 1, Files: files})
		assert.ErrorIs(t, err, api.ErrTooManyFiles)

		_, err = svc.Materials.Upload(ctx, api.UploadParams{Branch: 1, Files: []api.UploadFile{{Name: "x"}}})
		assert.ErrorIs(t, err, api.ErrInvalidFile)
		assert.Empty(t, calls)
	})
}

func TestMaterials_Rate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, respond(http.StatusOK, `{"message":"Оценка сохранена","average_rating":4.5,"ratings_count":2}`))
	loggedIn(mgr)

	for _, v := range []int{0, 6, -1} {
		_, err := svc.Materials.Rate(ctx, 4, v)
		assert.ErrorIs(t, err, api.ErrInvalidRating)
	}
	assert.Empty(t, calls)

	res, err := svc.Materials.Rate(ctx, 4, 5)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, float64(res.AverageRating), 0.001)
	assert.Equal(t, 2, res.RatingsCount)

	rec := <-calls
	assert.Equal(t, "/api/materials/4/rate/", rec.Path)
	assert.Equal(t, map[string]any{"value": float64(5)}, decodeBody(t, rec))
}

func TestMaterials_Counters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, respond(http.StatusOK, `{"message":"ok"}`))
	loggedIn(mgr)

	require.NoError(t, svc.Materials.Download(ctx, 4))
	assert.Equal(t, "/api/materials/4/download/", (<-calls).Path)
	require.NoError(t, svc.Materials.View(ctx, 4))
	assert.Equal(t, "/api/materials/4/view/", (<-calls).Path)
}

func TestMaterials_Comments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			respond(http.StatusOK, `[{"id":1,"text":"спасибо","replies_count":1,"replies":[{"id":2,"text":"+1","parent":1}]}]`)(w, r)
			return
		}
		respond(http.StatusCreated, `{"id":3,"material":4,"text":"ответ","parent":1}`)(w, r)
	})
	loggedIn(mgr)

	comments, err := svc.Materials.Comments(ctx, 4)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "/api/materials/4/comments/", (<-calls).Path)

	_, err = svc.Materials.Comment(ctx, 4, "", nil)
	assert.ErrorIs(t, err, api.ErrEmptyValue)

	c, err := svc.Materials.Comment(ctx, 4, "ответ", session.Ptr(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)

	rec := <-calls
	assert.Equal(t, "/api/materials/comments/", rec.Path)
	assert.Equal(t, map[string]any{"material": float64(4), "text": "ответ", "parent": float64(1)}, decodeBody(t, rec))
}

func TestMaterials_Moderation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		status := "approved"
		if strings.HasSuffix(r.URL.Path, "/reject/") {
			status = "rejected"
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "material": map[string]any{"id": 4, "status": status}})
	})
	loggedIn(mgr)

	m, err := svc.Materials.Approve(ctx, 4, "")
	require.NoError(t, err)
	assert.Equal(t, api.StatusApproved, m.Status)
	assert.Equal(t, "/api/materials/4/approve/", (<-calls).Path)

	_, err = svc.Materials.Reject(ctx, 4, "")
	require.ErrorIs(t, err, api.ErrCommentRequired)

	m, err = svc.Materials.Reject(ctx, 4, "нечитаемо")
	require.NoError(t, err)
	assert.Equal(t, api.StatusRejected, m.Status)
	assert.Equal(t, map[string]any{"comment": "нечитаемо"}, decodeBody(t, <-calls))
}

func TestMaterials_DownloadFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="lecture-1.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	loggedIn(mgr)

	var buf bytes.Buffer
	name, err := svc.Materials.DownloadFile(ctx, 4, 8, &buf)
	require.NoError(t, err)
	assert.Equal(t, "lecture-1.pdf", name)
	assert.Equal(t, "%PDF-1.4", buf.String())

	rec := <-calls
	assert.Equal(t, "/api/materials/4/files/8/download/", rec.Path)
	assert.Equal(t, "*/*", rec.Header.Get("Accept"))
	assert.Equal(t, "Bearer tok1", rec.Header.Get("Authorization"))
}

func TestNotificationsAndModeration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mgr, calls := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/notifications/") {
			respond(http.StatusOK, `{"count":4}`)(w, r)
			return
		}
		respond(http.StatusOK, `{"count":1,"results":[{"id":1,"action":"reject","comment":"спам","object_id":9,"created_at":"2024-09-01T10:00:00Z"}]}`)(w, r)
	})
	loggedIn(mgr)

	n, err := svc.Notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "/api/notifications/unread_count/", (<-calls).Path)

	logs, err := svc.Moderation.Logs(ctx, api.ActionReject, 2)
	require.NoError(t, err)
	require.Len(t, logs.Results, 1)
	assert.Equal(t, api.ActionReject, logs.Results[0].Action)
	rec := <-calls
	assert.Equal(t, "/api/moderation/logs/", rec.Path)
	assert.Equal(t, "action=reject&page=2", rec.Query)
}
