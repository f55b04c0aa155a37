package wellness

import (
	"context"
)

// DraftInput is the payload of a save-draft call. SessionID empty
// means create.
type DraftInput struct {
	SessionID   string
	Title       string
	Tags        []string
	ResourceURL string
}

// Service owns the draft/publish lifecycle on top of a Store.
//
// States: draft, published. Publish is terminal; there is no
// unpublish. SaveDraft on an existing session forces its status back
// to draft even when it was published, so the public copy disappears
// until the owner republishes. That mirrors the original product
// behavior and is asserted by tests.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// SaveDraft creates a draft when in.SessionID is empty, otherwise
// updates the owned session while forcing its status to draft.
// Validation rejects the whole payload before any write.
func (s *Service) SaveDraft(ctx context.Context, ownerID string, in DraftInput) (*Session, error) {
	fields, err := ValidateFields(in.Title, in.Tags, in.ResourceURL)
	if err != nil {
		return nil, err
	}

	if in.SessionID == "" {
		sess := &Session{
			UserID:      ownerID,
			Title:       fields.Title,
			Tags:        fields.Tags,
			ResourceURL: fields.ResourceURL,
			Status:      StatusDraft,
		}
		if err := s.store.Create(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}

	return s.store.Update(ctx, in.SessionID, ownerID, fields)
}

// Publish transitions an owned session to published. Idempotent on
// an already-published session; every call advances updated_at.
func (s *Service) Publish(ctx context.Context, ownerID, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, ownerID, Fields{
		Title:       sess.Title,
		Tags:        sess.Tags,
		ResourceURL: sess.ResourceURL,
		Status:      StatusPublished,
	})
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*Session, error) {
	return s.store.Get(ctx, id, ownerID)
}

func (s *Service) ListPublic(ctx context.Context) ([]Session, error) {
	return s.store.ListPublic(ctx, PublicPageSize)
}

func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]Session, error) {
	return s.store.ListOwned(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.Delete(ctx, id, ownerID)
}
