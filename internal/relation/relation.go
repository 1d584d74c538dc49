// Package relation maintains the three directed user edges: Follow,
// Favorite and ShoppingCart. Uniqueness and the no-self-follow rule are
// enforced by the store and translated into sentinel errors here.
package relation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind names a relation.
type Kind string

const (
	Follow       Kind = "follow"
	Favorite     Kind = "favorite"
	ShoppingCart Kind = "shopping_cart"
)

var (
	ErrDuplicateEdge = errors.New("edge already exists")
	ErrSelfReference = errors.New("self reference not allowed")
	ErrEdgeNotFound  = errors.New("edge not found")
	// ErrTargetGone is returned when the target was deleted between the
	// existence check and the insert.
	ErrTargetGone = errors.New("edge target no longer exists")
	// ErrActorGone is returned when the acting user's row no longer exists.
	ErrActorGone   = errors.New("edge actor no longer exists")
	ErrUnknownKind = errors.New("unknown relation kind")
)

// Edge is a stored relation row.
type Edge struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	ActorID   uuid.UUID `json:"actor_id"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

type descriptor struct {
	targetColumn    string
	selfReferential bool
	model           func() any
	row             func(actor, target uuid.UUID) any
	edge            func(row any) Edge
}

var descriptors = map[Kind]descriptor{
	Follow: {
		targetColumn:    "following_id",
		selfReferential: true,
		model:           func() any { return &models.Follow{} },
		row: func(actor, target uuid.UUID) any {
			return &models.Follow{UserID: actor, FollowingID: target}
		},
		edge: func(row any) Edge {
			f := row.(*models.Follow)
			return Edge{ID: f.ID, Kind: Follow, ActorID: f.UserID, TargetID: f.FollowingID, CreatedAt: f.CreatedAt}
		},
	},
	Favorite: {
		targetColumn: "recipe_id",
		model:        func() any { return &models.Favorite{} },
		row: func(actor, target uuid.UUID) any {
			return &models.Favorite{UserID: actor, RecipeID: target}
		},
		edge: func(row any) Edge {
			f := row.(*models.Favorite)
			return Edge{ID: f.ID, Kind: Favorite, ActorID: f.UserID, TargetID: f.RecipeID, CreatedAt: f.CreatedAt}
		},
	},
	ShoppingCart: {
		targetColumn: "recipe_id",
		model:        func() any { return &models.ShoppingCart{} },
		row: func(actor, target uuid.UUID) any {
			return &models.ShoppingCart{UserID: actor, RecipeID: target}
		},
		edge: func(row any) Edge {
			s := row.(*models.ShoppingCart)
			return Edge{ID: s.ID, Kind: ShoppingCart, ActorID: s.UserID, TargetID: s.RecipeID, CreatedAt: s.CreatedAt}
		},
	},
}

func lookup(kind Kind) (descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return descriptor{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d, nil
}

// Manager adds and removes edges. It never reads before writing: the insert
// itself decides whether the pair already exists.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Add creates the edge actor -> target.
func (m *Manager) Add(ctx context.Context, kind Kind, actor, target uuid.UUID) (Edge, error) {
	d, err := lookup(kind)
	if err != nil {
		return Edge{}, err
	}
	if d.selfReferential && actor == target {
		return Edge{}, ErrSelfReference
	}

	row := d.row(actor, target)
	if err := m.db.WithContext(ctx).Create(row).Error; err != nil {
		translated := translate(err)
		if errors.Is(translated, ErrTargetGone) {
			translated = m.missingEndpoint(ctx, actor)
		}
		if translated != nil {
			return Edge{}, translated
		}
		return Edge{}, fmt.Errorf("failed to add %s edge: %w", kind, err)
	}

	edge := d.edge(row)
	logging.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Str("actor", actor.String()).
		Str("target", target.String()).
		Msg("edge added")
	return edge, nil
}

// missingEndpoint names the side of a failed foreign key. Neither driver
// reports the violated constraint portably, so the actor row is looked up
// after the failed insert.
func (m *Manager) missingEndpoint(ctx context.Context, actor uuid.UUID) error {
	var count int64
	err := m.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", actor).Count(&count).Error
	if err == nil && count == 0 {
		return ErrActorGone
	}
	return ErrTargetGone
}

// Remove deletes the edge actor -> target with a single conditional delete.
func (m *Manager) Remove(ctx context.Context, kind Kind, actor, target uuid.UUID) error {
	d, err := lookup(kind)
	if err != nil {
		return err
	}

	res := m.db.WithContext(ctx).
		Where("user_id = ? AND "+d.targetColumn+" = ?", actor, target).
		Delete(d.model())
	if res.Error != nil {
		return fmt.Errorf("failed to remove %s edge: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEdgeNotFound
	}

	logging.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Str("actor", actor.String()).
		Str("target", target.String()).
		Msg("edge removed")
	return nil
}

// Exists reports whether actor -> target is stored.
func (m *Manager) Exists(ctx context.Context, kind Kind, actor, target uuid.UUID) (bool, error) {
	d, err := lookup(kind)
	if err != nil {
		return false, err
	}
	var count int64
	err = m.db.WithContext(ctx).Model(d.model()).
		Where("user_id = ? AND "+d.targetColumn+" = ?", actor, target).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s edge: %w", kind, err)
	}
	return count > 0, nil
}

// Targets returns which of the given targets actor has an edge to.
func (m *Manager) Targets(ctx context.Context, kind Kind, actor uuid.UUID, targets []uuid.UUID) (map[uuid.UUID]bool, error) {
	d, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(targets))
	if len(targets) == 0 {
		return out, nil
	}

	var ids []uuid.UUID
	err = m.db.WithContext(ctx).Model(d.model()).
		Where("user_id = ? AND "+d.targetColumn+" IN ?", actor, targets).
		Pluck(d.targetColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s edges: %w", kind, err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
