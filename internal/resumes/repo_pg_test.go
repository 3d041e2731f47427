package resumes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var pgColumns = []string{"id", "user_id", "title", "data", "template", "created_at", "updated_at"}

func newPGRepo(t *testing.T, now time.Time) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db, Now: func() time.Time { return now }}, mock
}

func TestPGRepoCreate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newPGRepo(t, now)
	data := []byte(`{"personal":{}}`)

	mock.ExpectQuery("INSERT INTO resumes").
		WithArgs(AnonymousOwner, "My resume", data, "classic", now).
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow(int64(1), AnonymousOwner, "My resume", data, "classic", now, now))

	got, err := repo.Create(context.Background(), InsertResume{
		UserID:   StringPtr(AnonymousOwner),
		Title:    "My resume",
		Data:     data,
		Template: "classic",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != 1 || got.UserID == nil || *got.UserID != AnonymousOwner {
		t.Fatalf("unexpected resume: %+v", got)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateNullOwner(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newPGRepo(t, now)

	mock.ExpectQuery("INSERT INTO resumes").
		WithArgs(nil, "t", sqlmock.AnyArg(), "modern", now).
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow(int64(2), nil, "t", []byte(`{}`), "modern", now, now))

	got, err := repo.Create(context.Background(), InsertResume{Title: "t", Data: []byte(`{}`), Template: "modern"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.UserID != nil {
		t.Fatalf("expected nil owner, got %q", *got.UserID)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newPGRepo(t, time.Now())
	mock.ExpectQuery("SELECT .* FROM resumes").
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByOwner(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newPGRepo(t, now)
	mock.ExpectQuery("SELECT .* FROM resumes\\s+WHERE user_id = \\$1\\s+ORDER BY id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow(int64(1), "u1", "a", []byte(`{}`), "modern", now, now).
			AddRow(int64(4), "u1", "b", []byte(`{}`), "minimal", now, now))

	got, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].Template != "minimal" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestPGRepoListByOwnerEmpty(t *testing.T) {
	repo, mock := newPGRepo(t, time.Now())
	mock.ExpectQuery("SELECT .* FROM resumes").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(pgColumns))

	got, err := repo.ListByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestPGRepoUpdateTitleOnly(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	repo, mock := newPGRepo(t, now)
	title := "Renamed"

	mock.ExpectQuery("UPDATE resumes SET").
		WithArgs(int64(7), false, nil, "Renamed", nil, nil, now).
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow(int64(7), AnonymousOwner, "Renamed", []byte(`{}`), "modern", created, now))

	got, err := repo.Update(context.Background(), 7, ResumePatch{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Renamed" || !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissing(t *testing.T) {
	now := time.Now()
	repo, mock := newPGRepo(t, now)
	mock.ExpectQuery("UPDATE resumes SET").
		WithArgs(int64(9), true, "u2", nil, []byte(`{}`), "classic", now).
		WillReturnError(sql.ErrNoRows)

	tpl := "classic"
	_, err := repo.Update(context.Background(), 9, ResumePatch{
		SetUserID: true,
		UserID:    StringPtr("u2"),
		Data:      []byte(`{}`),
		Template:  &tpl,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newPGRepo(t, time.Now())
	mock.ExpectExec("DELETE FROM resumes").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM resumes").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if ok, err := repo.Delete(ctx, 3); err != nil || !ok {
		t.Fatalf("expected first delete true, got %v %v", ok, err)
	}
	if ok, err := repo.Delete(ctx, 3); err != nil || ok {
		t.Fatalf("expected second delete false, got %v %v", ok, err)
	}
}

func TestPGRepoWrapsDriverErrors(t *testing.T) {
	repo, mock := newPGRepo(t, time.Now())
	boom := errors.New("connection reset")
	mock.ExpectExec("DELETE FROM resumes").WillReturnError(boom)

	_, err := repo.Delete(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}
