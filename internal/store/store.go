// Package store owns session persistence for the conversation engine. Two
// backends exist: an in-memory map for single-process deployments and a
// Redis-backed store when turns must survive restarts.
package store

import (
	"context"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// Store maps opaque session identifiers onto conversation state. The engine
// is the only writer; it holds a per-session lock across GetOrCreate and Put,
// so backends do not need to provide atomicity beyond single operations.
type Store interface {
	// GetOrCreate returns the session for id, creating a fresh one at the
	// opening step when the id has not been seen. The second return reports
	// whether the session was created by this call.
	GetOrCreate(ctx context.Context, id string) (lead.Session, bool, error)

	// Put unconditionally overwrites the stored session.
	Put(ctx context.Context, session lead.Session) error
}
