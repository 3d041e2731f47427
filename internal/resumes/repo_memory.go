package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[int64]Resume
	nextID int64
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo whose first id is 1.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[int64]Resume),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source; used by tests.
func (r *MemoryRepo) WithClock(now func() time.Time) *MemoryRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

// Create assigns the next id and stores the record.
func (r *MemoryRepo) Create(ctx context.Context, in InsertResume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	resume := Resume{
		ID:        r.nextID,
		UserID:    cloneString(in.UserID),
		Title:     in.Title,
		Data:      cloneRaw(in.Data),
		Template:  in.Template,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.byID[resume.ID] = resume
	return cloneResume(resume), nil
}

// Get returns the resume with the given id.
func (r *MemoryRepo) Get(ctx context.Context, id int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return cloneResume(resume), nil
}

// ListByOwner returns the owner's resumes in id order.
func (r *MemoryRepo) ListByOwner(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0)
	for _, resume := range r.byID {
		if resume.UserID != nil && *resume.UserID == userID {
			out = append(out, cloneResume(resume))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces the supplied fields and refreshes UpdatedAt. It never creates records.
func (r *MemoryRepo) Update(ctx context.Context, id int64, patch ResumePatch) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok {
		return Resume{}, ErrNotFound
	}

	updated := patch.apply(existing)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now()
	if updated.UpdatedAt.Before(existing.UpdatedAt) {
		updated.UpdatedAt = existing.UpdatedAt
	}
	r.byID[id] = updated
	return cloneResume(updated), nil
}

// Delete removes the resume and reports whether it existed.
func (r *MemoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

var _ Repo = (*MemoryRepo)(nil)
