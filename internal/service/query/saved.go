package query

import (
	"context"
	"strings"

	"parquet-explorer/internal/domain"
)

// SaveQueryRequest holds the user-supplied fields of a new saved query.
type SaveQueryRequest struct {
	Name        string   `json:"name"`
	SQL         string   `json:"sql"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListSaved returns the saved queries in creation order.
func (s *QueryService) ListSaved(ctx context.Context) ([]domain.SavedQuery, error) {
	return s.saved.List(ctx)
}

// SaveQuery stores a new saved query with a fresh id and creation time.
func (s *QueryService) SaveQuery(ctx context.Context, req SaveQueryRequest) (*domain.SavedQuery, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrValidation("saved query name is required")
	}
	if strings.TrimSpace(req.SQL) == "" {
		return nil, domain.ErrValidation("saved query sql is required")
	}
	return s.saved.Create(ctx, &domain.SavedQuery{
		ID:          domain.NewID(),
		Name:        req.Name,
		SQL:         req.SQL,
		Description: req.Description,
		Tags:        req.Tags,
		CreatedAt:   s.now(),
	})
}

// UpdateSaved applies the non-nil fields of upd.
func (s *QueryService) UpdateSaved(ctx context.Context, id string, upd domain.SavedQueryUpdate) (*domain.SavedQuery, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, domain.ErrValidation("saved query name must not be empty")
	}
	if upd.SQL != nil && strings.TrimSpace(*upd.SQL) == "" {
		return nil, domain.ErrValidation("saved query sql must not be empty")
	}
	return s.saved.Update(ctx, id, upd)
}

// DeleteSaved removes a saved query. Deleting an unknown id is not an error.
func (s *QueryService) DeleteSaved(ctx context.Context, id string) error {
	return s.saved.Delete(ctx, id)
}

// RunSaved executes a saved query and stamps its last run time. The stamp is
// written even when the query fails.
func (s *QueryService) RunSaved(ctx context.Context, id string) (*QueryResult, error) {
	sq, err := s.saved.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	res, runErr := s.Execute(ctx, sq.SQL)

	ranAt := s.now()
	if _, err := s.saved.Update(ctx, id, domain.SavedQueryUpdate{LastRun: &ranAt}); err != nil {
		s.logger.Warn("stamp saved query last run", "id", id, "error", err)
	}
	return res, runErr
}
