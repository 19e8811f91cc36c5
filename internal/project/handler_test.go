package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/typeid"
)

type memoryRepo struct {
	created []*document.Project
	snaps   map[string]*Snapshot
}

func (m *memoryRepo) Create(_ context.Context, doc *document.Project) (*Project, error) {
	m.created = append(m.created, doc)
	return &Project{ID: doc.ID, Name: doc.Name, CreatedAt: created}, nil
}

func (m *memoryRepo) LatestSnapshot(_ context.Context, projectID string) (*Snapshot, error) {
	snap, ok := m.snaps[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	return snap, nil
}

func router(repo Repository) *mux.Router {
	h := NewHandler(repo)
	r := mux.NewRouter()
	r.HandleFunc("/api/projects", h.Create).Methods("POST")
	r.HandleFunc("/api/projects/{projectId}/snapshots/latest", h.GetLatestSnapshot).Methods("GET")
	return r
}

func TestGetLatestSnapshot(t *testing.T) {
	known, unknown := typeid.NewProjectID(), typeid.NewProjectID()
	repo := &memoryRepo{snaps: map[string]*Snapshot{
		known: {ID: "snap_1", ProjectID: known, Version: 2, Document: json.RawMessage(`{"name":"cats"}`)},
	}}
	r := router(repo)

	tests := []struct {
		name string
		id   string
		code int
	}{
		{"latest", known, http.StatusOK},
		{"unknown project", unknown, http.StatusNotFound},
		{"malformed id", "proj_1", http.StatusBadRequest},
		{"wrong prefix", typeid.NewFrameID(), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/"+tt.id+"/snapshots/latest", nil))
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.JSONEq(t, `{"name":"cats"}`, rec.Body.String())
			}
		})
	}
}

func TestCreateProject(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"name":"cats","width":640,"height":480}`, http.StatusCreated},
		{"missing name", `{"width":640,"height":480}`, http.StatusBadRequest},
		{"bad size", `{"name":"cats","width":0,"height":480}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{}
			rec := httptest.NewRecorder()
			router(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
			if tt.code != http.StatusCreated {
				assert.Empty(t, repo.created)
				return
			}
			require.Len(t, repo.created, 1)
			var p Project
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, repo.created[0].ID, p.ID)
			assert.Equal(t, 640, repo.created[0].Frames[0].Width)
		})
	}
}
