package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/typeid"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrExists   = errors.New("project already exists")
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// saveAttempts bounds retries when concurrent saves race for a version.
const saveAttempts = 2

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// DB is the subset of a pgx pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Snapshot struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"createdAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (project_id, version)
);`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Create stores a project and its first snapshot.
func (s *Store) Create(ctx context.Context, doc *document.Project) (*Project, error) {
	if doc.ID == "" {
		doc.ID = typeid.NewProjectID()
	}

	p := Project{ID: doc.ID, Name: doc.Name}
	err := s.db.QueryRow(ctx,
		`INSERT INTO projects (id, name) VALUES ($1, $2) RETURNING created_at`,
		p.ID, p.Name,
	).Scan(&p.CreatedAt)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return nil, fmt.Errorf("create project %s: %w", p.ID, ErrExists)
		}
		return nil, fmt.Errorf("create project: %w", err)
	}

	if _, err := s.SaveSnapshot(ctx, doc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}
	return &p, nil
}

// LatestSnapshot returns the highest version snapshot of a project.
func (s *Store) LatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	snap := Snapshot{ProjectID: projectID}
	err := s.db.QueryRow(ctx,
		`SELECT id, version, document, created_at FROM snapshots
		 WHERE project_id = $1 ORDER BY version DESC LIMIT 1`,
		projectID,
	).Scan(&snap.ID, &snap.Version, &snap.Document, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

// SaveSnapshot stores doc as the next version of its project. When another
// save takes the same version first, it retries with the following one.
func (s *Store) SaveSnapshot(ctx context.Context, doc *document.Project) (*Snapshot, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	for attempt := 1; ; attempt++ {
		snap := Snapshot{ID: typeid.NewSnapshotID(), ProjectID: doc.ID, Document: data}
		err = s.db.QueryRow(ctx,
			`INSERT INTO snapshots (id, project_id, version, document)
			 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3 FROM snapshots WHERE project_id = $2
			 RETURNING version, created_at`,
			snap.ID, snap.ProjectID, data,
		).Scan(&snap.Version, &snap.CreatedAt)
		switch code := pgCode(err); {
		case err == nil:
			return &snap, nil
		case code == foreignKeyViolation:
			return nil, ErrNotFound
		case code == uniqueViolation && attempt < saveAttempts:
			slog.Warn("snapshot version taken, retrying", "project", doc.ID, "attempt", attempt)
		default:
			return nil, fmt.Errorf("create snapshot: %w", err)
		}
	}
}

// LoadDocument decodes the latest snapshot of a project.
func (s *Store) LoadDocument(ctx context.Context, projectID string) (*document.Project, error) {
	snap, err := s.LatestSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var doc document.Project
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return &doc, nil
}
