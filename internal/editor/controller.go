package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

// DefaultWindow is the quiet period after the last change before the working
// copy is written to the snapshot store.
const DefaultWindow = time.Second

const defaultTitle = "My Resume"

// ErrNoSaver is returned by Save when the controller has no server to save to.
var ErrNoSaver = errors.New("no saver configured")

// SaveRequest is the record sent to the server on an explicit save.
type SaveRequest struct {
	UserID   *string
	Title    string
	Data     model.ResumeData
	Template string
}

// Saver promotes the working copy to a server-side resume.
type Saver interface {
	Create(ctx context.Context, req SaveRequest) (resumes.Resume, error)
	Update(ctx context.Context, id int64, req SaveRequest) (resumes.Resume, error)
}

// Options configures Open.
type Options struct {
	Store  SnapshotStore
	Saver  Saver
	Window time.Duration

	// Title, Template and UserID seed the record used by Save when no earlier
	// session was stored.
	Title    string
	Template string
	UserID   *string

	// OnWarning is called once if the stored snapshot could not be used.
	OnWarning func(*HydrationError)
}

// session links the local working copy to the server record it was saved to.
type session struct {
	ResumeID int64   `json:"resumeId,omitempty"`
	UserID   *string `json:"userId,omitempty"`
	Title    string  `json:"title"`
	Template string  `json:"template"`
}

// Controller owns the in-memory working copy of a resume. Changes are
// persisted to the snapshot store after a quiet period, and promoted to the
// server only by Save.
type Controller struct {
	store     SnapshotStore
	saver     Saver
	debouncer *Debouncer

	mu      sync.Mutex
	data    model.ResumeData
	session session
	warning *HydrationError
	epoch   uint64

	// writeMu orders snapshot writes against Reset.
	writeMu sync.Mutex
}

// Open hydrates a controller from opts.Store. A missing snapshot yields the
// defaults; an unreadable one yields the defaults plus a warning.
func Open(ctx context.Context, opts Options) *Controller {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	c := &Controller{
		store: opts.Store,
		saver: opts.Saver,
		data:  model.Defaults(),
		session: session{
			UserID:   opts.UserID,
			Title:    opts.Title,
			Template: opts.Template,
		},
	}
	c.debouncer = NewDebouncer(opts.Window, func(err error) {
		telemetry.Error("editor.snapshot_write_failed", map[string]any{"error": err.Error()})
	})

	c.hydrate(ctx)
	c.loadSession(ctx)

	if c.warning != nil {
		telemetry.Warn("editor.hydration_failed", map[string]any{
			"key":   c.warning.Key,
			"error": c.warning.Err.Error(),
		})
		if opts.OnWarning != nil {
			opts.OnWarning(c.warning)
		}
	}
	return c
}

func (c *Controller) hydrate(ctx context.Context) {
	raw, err := c.store.Load(ctx, SnapshotKey)
	if errors.Is(err, ErrNoSnapshot) {
		return
	}
	if err == nil {
		var patch model.Patch
		patch, err = model.ParseSnapshot(raw)
		if err == nil {
			c.data = model.Defaults().Apply(patch)
			c.data.Normalize()
			return
		}
	}
	c.warning = &HydrationError{Key: SnapshotKey, Err: err}
}

func (c *Controller) loadSession(ctx context.Context) {
	raw, err := c.store.Load(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			telemetry.Warn("editor.session_load_failed", map[string]any{"error": err.Error()})
		}
		return
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		telemetry.Warn("editor.session_load_failed", map[string]any{"error": err.Error()})
		return
	}
	// Explicit options win over what was stored.
	if c.session.Title != "" {
		s.Title = c.session.Title
	}
	if c.session.Template != "" {
		s.Template = c.session.Template
	}
	if c.session.UserID != nil {
		s.UserID = c.session.UserID
	}
	c.session = s
}

// Warning returns the hydration failure, or nil if the snapshot loaded cleanly.
func (c *Controller) Warning() *HydrationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warning
}

// Data returns a deep copy of the working copy.
func (c *Controller) Data() model.ResumeData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// ResumeID returns the server id the working copy was last saved to, or 0.
func (c *Controller) ResumeID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ResumeID
}

// Template returns the template Save will send.
func (c *Controller) Template() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return orDefault(c.session.Template, model.DefaultTemplate)
}

// Apply replaces the top-level keys present in p and schedules a snapshot write.
func (c *Controller) Apply(p model.Patch) {
	if p.Empty() {
		return
	}
	c.mu.Lock()
	c.data = c.data.Apply(p)
	c.mu.Unlock()
	c.schedule()
}

// ApplyChecked validates every key present in p before applying it. On a
// *model.ValidationErrors nothing changes.
func (c *Controller) ApplyChecked(p model.Patch) error {
	if err := model.ValidatePatch(p); err != nil {
		return err
	}
	c.Apply(p)
	return nil
}

// ApplyJSON decodes and validates a partial wire document, then applies it.
func (c *Controller) ApplyJSON(raw []byte) error {
	p, err := model.DecodePatch(raw)
	if err != nil {
		return err
	}
	c.Apply(p)
	return nil
}

// SetTitle changes the record title used by Save.
func (c *Controller) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	c.mu.Lock()
	c.session.Title = title
	c.mu.Unlock()
	c.schedule()
	return nil
}

// SetTemplate changes the record template used by Save.
func (c *Controller) SetTemplate(templateID string) error {
	if !model.IsTemplate(templateID) {
		return fmt.Errorf("unknown template %q", templateID)
	}
	c.mu.Lock()
	c.session.Template = templateID
	c.mu.Unlock()
	c.schedule()
	return nil
}

func (c *Controller) schedule() {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()
	c.debouncer.Schedule(func(ctx context.Context) error {
		return c.persist(ctx, epoch)
	})
}

// persist writes the current working copy unless a Reset happened since the
// write was scheduled.
func (c *Controller) persist(ctx context.Context, epoch uint64) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return nil
	}
	data := c.data.Clone()
	sess := c.session
	c.mu.Unlock()

	return c.write(ctx, data, sess)
}

func (c *Controller) write(ctx context.Context, data model.ResumeData, sess session) error {
	blob, err := model.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.store.Save(ctx, SnapshotKey, blob); err != nil {
		return err
	}
	meta, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.store.Save(ctx, SessionKey, meta); err != nil {
		return err
	}
	metrics.IncSnapshotWrite()
	return nil
}

// Save writes the snapshot immediately and promotes the working copy to the
// server: the first save creates a record, later ones update it. A failure is
// returned as is; nothing is retried.
func (c *Controller) Save(ctx context.Context) (resumes.Resume, error) {
	if c.saver == nil {
		return resumes.Resume{}, ErrNoSaver
	}
	c.debouncer.Cancel()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	data := c.data.Clone()
	sess := c.session
	c.mu.Unlock()

	if err := c.write(ctx, data, sess); err != nil {
		return resumes.Resume{}, err
	}

	req := SaveRequest{
		UserID:   sess.UserID,
		Title:    orDefault(sess.Title, defaultTitle),
		Data:     data,
		Template: orDefault(sess.Template, model.DefaultTemplate),
	}
	var (
		saved resumes.Resume
		err   error
	)
	if sess.ResumeID == 0 {
		saved, err = c.saver.Create(ctx, req)
	} else {
		saved, err = c.saver.Update(ctx, sess.ResumeID, req)
	}
	if err != nil {
		telemetry.Warn("editor.save_failed", map[string]any{
			"resume_id": sess.ResumeID,
			"error":     err.Error(),
		})
		return resumes.Resume{}, err
	}

	c.mu.Lock()
	c.session.ResumeID = saved.ID
	sess = c.session
	c.mu.Unlock()

	if err := c.write(ctx, data, sess); err != nil {
		return saved, err
	}
	telemetry.Info("editor.saved", map[string]any{"resume_id": saved.ID})
	return saved, nil
}

// Reset discards pending writes, restores the defaults and deletes the
// stored snapshot. The link to the server record is dropped as well.
func (c *Controller) Reset(ctx context.Context) error {
	c.debouncer.Cancel()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.epoch++
	c.data = model.Defaults()
	c.session.ResumeID = 0
	c.warning = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, SnapshotKey); err != nil {
		return err
	}
	return c.store.Delete(ctx, SessionKey)
}

// Flush runs a pending snapshot write now.
func (c *Controller) Flush(ctx context.Context) error {
	return c.debouncer.Flush(ctx)
}

// Close flushes pending writes. Later changes are kept in memory only.
func (c *Controller) Close(ctx context.Context) error {
	return c.debouncer.Close(ctx)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
