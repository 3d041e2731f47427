package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres. Ids come from a BIGSERIAL sequence,
// which never hands out a value twice.
type PGRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

const resumeColumns = `id, user_id, title, data, template, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// Create inserts a resume and returns the stored record.
func (r *PGRepo) Create(ctx context.Context, in InsertResume) (Resume, error) {
	const query = `
INSERT INTO resumes (user_id, title, data, template, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING ` + resumeColumns

	row := r.DB.QueryRowContext(ctx, query,
		nullableString(in.UserID),
		in.Title,
		[]byte(in.Data),
		in.Template,
		r.now(),
	)
	resume, err := scanResume(row)
	if err != nil {
		return Resume{}, fmt.Errorf("insert resume: %w", err)
	}
	return resume, nil
}

// Get returns a resume by id.
func (r *PGRepo) Get(ctx context.Context, id int64) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("get resume %d: %w", id, err)
	}
	return resume, nil
}

// ListByOwner lists the owner's resumes in id order.
func (r *PGRepo) ListByOwner(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Update replaces the supplied columns in a single statement so readers never
// observe a half-applied patch.
func (r *PGRepo) Update(ctx context.Context, id int64, patch ResumePatch) (Resume, error) {
	const query = `
UPDATE resumes SET
    user_id = CASE WHEN $2::boolean THEN $3::text ELSE user_id END,
    title = COALESCE($4::text, title),
    data = COALESCE($5::jsonb, data),
    template = COALESCE($6::text, template),
    updated_at = GREATEST($7::timestamptz, updated_at)
WHERE id = $1
RETURNING ` + resumeColumns

	var data any
	if patch.Data != nil {
		data = []byte(patch.Data)
	}
	row := r.DB.QueryRowContext(ctx, query,
		id,
		patch.SetUserID,
		nullableString(patch.UserID),
		nullableString(patch.Title),
		data,
		nullableString(patch.Template),
		r.now(),
	)
	resume, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("update resume %d: %w", id, err)
	}
	return resume, nil
}

// Delete removes a resume and reports whether a row existed.
func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete resume %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete resume %d: %w", id, err)
	}
	return n > 0, nil
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		resume Resume
		userID sql.NullString
		data   []byte
	)
	if err := row.Scan(
		&resume.ID,
		&userID,
		&resume.Title,
		&data,
		&resume.Template,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if userID.Valid {
		resume.UserID = StringPtr(userID.String)
	}
	resume.Data = data
	return resume, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var _ Repo = (*PGRepo)(nil)
