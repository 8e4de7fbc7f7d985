// Package service orchestrates the café use cases on top of the
// repository: list, submit and remove.  Expected outcomes (validation
// failures, duplicate names, missing ids) are returned as explicit
// variants; the error return is reserved for infrastructure failures.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cafe-finder/internal/model"
	"github.com/iliyamo/cafe-finder/internal/queue"
	"github.com/iliyamo/cafe-finder/internal/repository"
	"github.com/iliyamo/cafe-finder/internal/validation"
)

// Store is the persistence contract the service depends on.
// *repository.CafeRepo satisfies it.
type Store interface {
	List(ctx context.Context) ([]*model.Cafe, error)
	Insert(ctx context.Context, c *model.Cafe) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher receives café events after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.CafeEvent) error
}

// SubmitOutcome enumerates the results of Submit.
type SubmitOutcome int

const (
	Created SubmitOutcome = iota + 1
	ValidationFailed
	DuplicateName
)

func (o SubmitOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case ValidationFailed:
		return "validation_failed"
	case DuplicateName:
		return "duplicate_name"
	}
	return "unknown"
}

// SubmitResult is the outcome of Submit.  Cafe is set for Created,
// Errors for ValidationFailed.
type SubmitResult struct {
	Outcome SubmitOutcome
	Cafe    *model.Cafe
	Errors  validation.Errors
}

// RemoveOutcome enumerates the results of Remove.
type RemoveOutcome int

const (
	Removed RemoveOutcome = iota + 1
	NotFound
)

func (o RemoveOutcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// CafeService implements the café use cases.
type CafeService struct {
	store     Store
	validator *validation.Validator
	events    EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewCafeService wires a service around store.  A nil events publisher
// disables event publication; a nil logger discards logs.
func NewCafeService(store Store, v *validation.Validator, events EventPublisher, log *zap.Logger) *CafeService {
	if store == nil || v == nil {
		panic("nil dependency passed to NewCafeService")
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CafeService{store: store, validator: v, events: events, log: log, now: time.Now}
}

// Listing returns every café in insertion order.
func (s *CafeService) Listing(ctx context.Context) ([]*model.Cafe, error) {
	return s.store.List(ctx)
}

// Submit validates sub and inserts the resulting café.  Nothing is
// written unless the outcome is Created.
func (s *CafeService) Submit(ctx context.Context, sub validation.Submission) (SubmitResult, error) {
	cafe, errs := s.validator.Validate(sub)
	if len(errs) > 0 {
		return SubmitResult{Outcome: ValidationFailed, Errors: errs}, nil
	}
	if err := s.store.Insert(ctx, &cafe); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Info("duplicate cafe name rejected", zap.String("name", cafe.Name))
			return SubmitResult{Outcome: DuplicateName}, nil
		}
		return SubmitResult{}, err
	}

	s.log.Info("cafe created", zap.Uint64("id", cafe.ID), zap.String("name", cafe.Name))
	s.publish(ctx, queue.CafeEvent{
		Type:     queue.EventCafeCreated,
		CafeID:   cafe.ID,
		Name:     cafe.Name,
		Location: cafe.Location,
	})
	return SubmitResult{Outcome: Created, Cafe: &cafe}, nil
}

// Remove deletes the café with the given id.
func (s *CafeService) Remove(ctx context.Context, id uint64) (RemoveOutcome, error) {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return NotFound, nil
		}
		return 0, err
	}
	s.log.Info("cafe removed", zap.Uint64("id", id))
	s.publish(ctx, queue.CafeEvent{Type: queue.EventCafeRemoved, CafeID: id})
	return Removed, nil
}

// publish is best effort; a broker outage never changes an outcome.
func (s *CafeService) publish(ctx context.Context, ev queue.CafeEvent) {
	ev.OccurredAt = s.now().UTC().Format(time.RFC3339)
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish cafe event failed", zap.String("type", ev.Type), zap.Uint64("cafe_id", ev.CafeID), zap.Error(err))
	}
}
