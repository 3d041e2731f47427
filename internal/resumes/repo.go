package resumes

import "context"

// Repo defines persistence operations for resumes. Implementations must make
// every call atomic with respect to concurrent callers and must never reuse ids.
type Repo interface {
	Create(ctx context.Context, in InsertResume) (Resume, error)
	Get(ctx context.Context, id int64) (Resume, error)
	ListByOwner(ctx context.Context, userID string) ([]Resume, error)
	Update(ctx context.Context, id int64, patch ResumePatch) (Resume, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
