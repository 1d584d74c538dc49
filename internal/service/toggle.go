package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/relation"
	"github.com/google/uuid"
)

// Verb selects the direction of a toggle.
type Verb int

const (
	Add Verb = iota
	Remove
)

func (v Verb) String() string {
	if v == Add {
		return "add"
	}
	return "remove"
}

// Outcome is the terminal state of a successful toggle.
type Outcome int

const (
	Added Outcome = iota
	Removed
)

// ToggleConfig is everything that differs between Follow, Favorite and
// ShoppingCart toggles.
type ToggleConfig[P any] struct {
	Kind relation.Kind
	// Target names the target entity in not-found messages ("user", "recipe").
	Target string
	// Label names the relation in rejection messages ("subscriptions").
	Label        string
	TargetExists func(ctx context.Context, target uuid.UUID) (bool, error)
	Project      func(ctx context.Context, actor uuid.UUID, edge relation.Edge) (P, error)
}

// ToggleResult carries the projection of the new edge when Outcome is Added.
type ToggleResult[P any] struct {
	Outcome    Outcome
	Projection P
}

// Toggle adds or removes the edge actor -> target for one relation kind.
// Errors are ErrUnauthenticated, a *NotFoundError for a missing target, a
// *RelationError for a rejected edge, or an infrastructure failure.
func Toggle[P any](ctx context.Context, rel *relation.Manager, cfg ToggleConfig[P], verb Verb, actor, target uuid.UUID) (ToggleResult[P], error) {
	var zero ToggleResult[P]
	if actor == uuid.Nil {
		return zero, ErrUnauthenticated
	}

	log := logging.Ctx(ctx).With().
		Str("kind", string(cfg.Kind)).
		Str("verb", verb.String()).
		Str("actor", actor.String()).
		Str("target", target.String()).
		Logger()

	exists, err := cfg.TargetExists(ctx, target)
	if err != nil {
		return zero, fmt.Errorf("failed to look up %s: %w", cfg.Target, err)
	}
	if !exists {
		log.Warn().Msg("toggle target missing")
		return zero, notFound(cfg.Target)
	}

	if verb == Remove {
		if err := rel.Remove(ctx, cfg.Kind, actor, target); err != nil {
			if errors.Is(err, relation.ErrEdgeNotFound) {
				log.Warn().Err(err).Msg("toggle rejected")
				return zero, &RelationError{Label: cfg.Label, Err: err}
			}
			return zero, err
		}
		return ToggleResult[P]{Outcome: Removed}, nil
	}

	edge, err := rel.Add(ctx, cfg.Kind, actor, target)
	switch {
	case err == nil:
	case errors.Is(err, relation.ErrDuplicateEdge), errors.Is(err, relation.ErrSelfReference):
		log.Warn().Err(err).Msg("toggle rejected")
		return zero, &RelationError{Label: cfg.Label, Err: err}
	case errors.Is(err, relation.ErrTargetGone):
		log.Warn().Err(err).Msg("toggle target vanished")
		return zero, notFound(cfg.Target)
	case errors.Is(err, relation.ErrActorGone):
		log.Warn().Err(err).Msg("toggle actor missing")
		return zero, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
	default:
		return zero, err
	}

	projection, err := cfg.Project(ctx, actor, edge)
	if err != nil {
		return zero, fmt.Errorf("failed to project %s edge: %w", cfg.Kind, err)
	}
	return ToggleResult[P]{Outcome: Added, Projection: projection}, nil
}
