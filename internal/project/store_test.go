package project

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/backend-go/internal/document"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *time.Time:
			*d = r.values[i].(time.Time)
		case *int:
			*d = r.values[i].(int)
		case *string:
			*d = r.values[i].(string)
		case *json.RawMessage:
			*d = r.values[i].(json.RawMessage)
		}
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	rows  []pgx.Row
	calls []call
	err   error
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.calls = append(db.calls, call{sql, args})
	return pgconn.NewCommandTag("CREATE TABLE"), db.err
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.calls = append(db.calls, call{sql, args})
	row := db.rows[0]
	db.rows = db.rows[1:]
	return row
}

var created = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func TestMigrate(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewStore(db).Migrate(context.Background()))
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "CREATE TABLE IF NOT EXISTS snapshots")

	db.err = errors.New("permission denied")
	assert.ErrorContains(t, NewStore(db).Migrate(context.Background()), "permission denied")
}

func TestCreateSavesInitialSnapshot(t *testing.T) {
	db := &fakeDB{rows: []pgx.Row{
		fakeRow{values: []any{created}},
		fakeRow{values: []any{1, created}},
	}}
	doc := document.NewEmptyProject("blank", 640, 480)

	p, err := NewStore(db).Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, p.ID)
	assert.Equal(t, "blank", p.Name)
	assert.Equal(t, created, p.CreatedAt)

	require.Len(t, db.calls, 2)
	assert.Equal(t, doc.ID, db.calls[1].args[1])
	var stored document.Project
	require.NoError(t, json.Unmarshal(db.calls[1].args[2].([]byte), &stored))
	assert.Equal(t, doc.Frames[0].ID, stored.Frames[0].ID)
}

func TestLatestSnapshot(t *testing.T) {
	doc := json.RawMessage(`{"id":"proj_1","name":"x","frames":[]}`)
	db := &fakeDB{rows: []pgx.Row{
		fakeRow{values: []any{"snap_1", 3, doc, created}},
		fakeRow{err: pgx.ErrNoRows},
		fakeRow{err: errors.New("connection reset")},
	}}
	s := NewStore(db)

	snap, err := s.LatestSnapshot(context.Background(), "proj_1")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Version)
	assert.Equal(t, "proj_1", snap.ProjectID)
	assert.JSONEq(t, string(doc), string(snap.Document))

	_, err = s.LatestSnapshot(context.Background(), "proj_2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LatestSnapshot(context.Background(), "proj_3")
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSaveSnapshotUnknownProject(t *testing.T) {
	db := &fakeDB{rows: []pgx.Row{fakeRow{err: &pgconn.PgError{Code: "23503"}}}}
	_, err := NewStore(db).SaveSnapshot(context.Background(), document.NewEmptyProject("x", 10, 10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDocument(t *testing.T) {
	sample := document.NewSampleProject("proj_sample")
	data, err := json.Marshal(sample)
	require.NoError(t, err)
	db := &fakeDB{rows: []pgx.Row{
		fakeRow{values: []any{"snap_1", 1, json.RawMessage(data), created}},
		fakeRow{values: []any{"snap_2", 2, json.RawMessage(`{"frames":`), created}},
	}}
	s := NewStore(db)

	doc, err := s.LoadDocument(context.Background(), "proj_sample")
	require.NoError(t, err)
	require.Len(t, doc.Frames, 2)
	assert.Equal(t, sample.Frames[1].Contents[1].ID, doc.Frames[1].Contents[1].ID)

	_, err = s.LoadDocument(context.Background(), "proj_sample")
	assert.ErrorContains(t, err, "decode snapshot snap_2")
}

func TestSaveSnapshotRetriesTakenVersion(t *testing.T) {
	taken := fakeRow{err: &pgconn.PgError{Code: "23505"}}
	doc := document.NewEmptyProject("x", 10, 10)

	db := &fakeDB{rows: []pgx.Row{taken, fakeRow{values: []any{5, created}}}}
	snap, err := NewStore(db).SaveSnapshot(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Version)
	require.Len(t, db.calls, 2)
	assert.NotEqual(t, db.calls[0].args[0], db.calls[1].args[0])

	db = &fakeDB{rows: []pgx.Row{taken, taken}}
	_, err = NewStore(db).SaveSnapshot(context.Background(), doc)
	assert.ErrorContains(t, err, "create snapshot")
	assert.Len(t, db.calls, 2)
}

func TestCreateExistingProject(t *testing.T) {
	db := &fakeDB{rows: []pgx.Row{fakeRow{err: &pgconn.PgError{Code: "23505"}}}}
	_, err := NewStore(db).Create(context.Background(), document.NewSampleProject("proj_sample"))
	assert.ErrorIs(t, err, ErrExists)
	assert.Len(t, db.calls, 1)
}
