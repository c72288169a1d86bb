// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MaxClientTokenLen = 64
)

var ErrConnIDEmpty = errors.New("connection id empty")

// ConnID identifies a single live transport connection.
type ConnID string

// NewConnID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// Connection is the registry-side view of a connected client.
type Connection struct {
	ID          ConnID    `json:"id"`
	ClientToken string    `json:"-"`
	Role        Role      `json:"role,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

func NewConnection(id ConnID, clientToken string) (*Connection, error) {
	if id == "" {
		return nil, ErrConnIDEmpty
	}
	if len(clientToken) > MaxClientTokenLen {
		clientToken = clientToken[:MaxClientTokenLen]
	}
	return &Connection{ID: id, ClientToken: clientToken, ConnectedAt: time.Now()}, nil
}
