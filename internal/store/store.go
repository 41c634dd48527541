package store

import (
	"context"

	"github.com/pitchintel/brief-cli/internal/model"
)

// Store defines the persistence interface for briefs and outreach sessions.
// Operations that take an owner apply it as an exact user_id filter; an empty
// owner disables scoping. A lookup that matches no row returns (nil, nil);
// an update or delete that matches no row reports not-found without touching
// other owners' rows.
type Store interface {
	// Briefs
	InsertBrief(ctx context.Context, brief model.Brief) (*model.Brief, error)
	GetBrief(ctx context.Context, id, owner string) (*model.Brief, error)
	ListBriefs(ctx context.Context, owner string) ([]model.Brief, error)
	UpdateBrief(ctx context.Context, id string, update model.BriefUpdate, owner string) (*model.Brief, error)
	DeleteBrief(ctx context.Context, id, owner string) error

	// Outreach sessions
	SaveOutreachSession(ctx context.Context, session model.OutreachSession) (*model.OutreachSession, error)
	ListOutreachSessions(ctx context.Context, userID string) ([]model.OutreachSession, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
