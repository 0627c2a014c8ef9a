// Package domain defines the tenant registry entities: workspaces, APIs and
// their scopes.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the tenant boundary. Every API and client belongs to exactly
// one workspace, and each workspace owns one data encryption key used to
// envelope-encrypt its signing material.
type Workspace struct {
	ID        uuid.UUID
	Name      string
	DataKeyID uuid.UUID
	CreatedAt time.Time
}
