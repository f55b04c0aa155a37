// Package editor is the session editing surface: form field state,
// debounced auto-save, and explicit save/publish actions. It is the
// single writer for its session; saves are serialized through the
// debouncer so a stale write can never revive old field values.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mohdfaziel/InnerPath/internal/client"
	"github.com/mohdfaziel/InnerPath/internal/wellness"
)

// AutoSaveDelay is the quiet period after the last edit before a
// draft is persisted.
const AutoSaveDelay = 5 * time.Second

const saveTimeout = 10 * time.Second

// ErrNotSaved rejects a publish on a draft that has never been saved.
var ErrNotSaved = errors.New("session has not been saved")

// Notification is a transient, dismissible message for the user.
type Notification struct {
	Message string
	Success bool
}

// DraftAPI is the slice of the API client the editor needs.
type DraftAPI interface {
	SaveDraft(ctx context.Context, p client.DraftPayload) (*wellness.Session, error)
	Publish(ctx context.Context, sessionID string) (*wellness.Session, error)
}

type Editor struct {
	api    DraftAPI
	deb    *Debouncer
	notify func(Notification)

	mu          sync.Mutex
	sessionID   string
	title       string
	tags        string
	resourceURL string
	status      string
}

// Options configure an Editor. Zero values get defaults.
type Options struct {
	Delay  time.Duration      // auto-save quiet period
	Notify func(Notification) // transient notification sink
}

func New(api DraftAPI, opts Options) *Editor {
	delay := opts.Delay
	if delay <= 0 {
		delay = AutoSaveDelay
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(Notification) {}
	}
	return &Editor{
		api:    api,
		deb:    NewDebouncer(delay),
		notify: notify,
	}
}

// Load populates the form from an existing session for editing.
func (e *Editor) Load(s *wellness.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sessionID = s.ID
	e.title = s.Title
	e.tags = wellness.FormatTags(s.Tags)
	e.resourceURL = s.ResourceURL
}

func (e *Editor) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Status reports the last auto-save outcome: "", "Saving...",
// "Saved" or "Save failed".
func (e *Editor) Status() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Editor) SetTitle(v string) {
	e.mu.Lock()
	e.title = v
	e.mu.Unlock()
	e.scheduleAutoSave()
}

// SetTags takes the raw comma-separated tag field.
func (e *Editor) SetTags(v string) {
	e.mu.Lock()
	e.tags = v
	e.mu.Unlock()
	e.scheduleAutoSave()
}

func (e *Editor) SetResourceURL(v string) {
	e.mu.Lock()
	e.resourceURL = v
	e.mu.Unlock()
	e.scheduleAutoSave()
}

// scheduleAutoSave restarts the debounce cycle. Incomplete forms are
// not worth a round trip. The payload is snapshotted when the timer
// fires, not now: by then an earlier save may have assigned the
// session its id, and a stale empty id would create a duplicate.
func (e *Editor) scheduleAutoSave() {
	e.mu.Lock()
	incomplete := strings.TrimSpace(e.title) == "" || strings.TrimSpace(e.resourceURL) == ""
	e.mu.Unlock()
	if incomplete {
		return
	}

	e.deb.Trigger(func() {
		e.autoSave(e.snapshot())
	})
}

func (e *Editor) snapshot() client.DraftPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return client.DraftPayload{
		SessionID:   e.sessionID,
		Title:       e.title,
		Tags:        wellness.ParseTags(e.tags),
		ResourceURL: e.resourceURL,
	}
}

// autoSave persists one trailing snapshot. A failure is surfaced as a
// notification and never retried; the next edit or an explicit save
// is the recovery path.
func (e *Editor) autoSave(payload client.DraftPayload) {
	e.setStatus("Saving...")

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	sess, err := e.api.SaveDraft(ctx, payload)
	if err != nil {
		e.setStatus("Save failed")
		e.notify(Notification{Message: "Auto-save failed. Please save manually."})
		return
	}

	e.adoptSession(sess)
	e.setStatus("Saved")
	e.notify(Notification{Message: "Draft auto-saved successfully!", Success: true})
}

// SaveDraft is the explicit save action. It validates the form,
// cancels any pending auto-save cycle and persists immediately.
func (e *Editor) SaveDraft(ctx context.Context) (*wellness.Session, error) {
	e.mu.Lock()
	_, err := wellness.ValidateFields(e.title, wellness.ParseTags(e.tags), e.resourceURL)
	if err != nil {
		e.mu.Unlock()
		e.notify(Notification{Message: err.Error()})
		return nil, err
	}
	e.mu.Unlock()
	payload := e.snapshot()

	e.deb.Cancel()

	sess, err := e.api.SaveDraft(ctx, payload)
	if err != nil {
		e.notify(Notification{Message: "Failed to save draft. Please try again."})
		return nil, err
	}

	e.adoptSession(sess)
	e.notify(Notification{Message: "Draft saved successfully!", Success: true})
	return sess, nil
}

// Publish transitions the session to published. The draft must have
// been saved at least once.
func (e *Editor) Publish(ctx context.Context) (*wellness.Session, error) {
	e.mu.Lock()
	id := e.sessionID
	e.mu.Unlock()

	if id == "" {
		e.notify(Notification{Message: "Please save as draft first"})
		return nil, ErrNotSaved
	}

	sess, err := e.api.Publish(ctx, id)
	if err != nil {
		e.notify(Notification{Message: "Failed to publish session. Please try again."})
		return nil, err
	}

	e.notify(Notification{Message: "Session published successfully!", Success: true})
	return sess, nil
}

// Close drops any pending auto-save cycle.
func (e *Editor) Close() {
	e.deb.Cancel()
}

func (e *Editor) adoptSession(s *wellness.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sessionID == "" && s != nil {
		e.sessionID = s.ID
	}
}

func (e *Editor) setStatus(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = v
}
