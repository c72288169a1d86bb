package core

import (
	"time"

	"github.com/dkeye/Assist/internal/domain"
)

// NoExclude broadcasts to the whole room, sender included.
const NoExclude domain.ConnID = ""

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.ConnID `json:"id"`
	Role     domain.Role   `json:"role,omitempty"`
	JoinedAt time.Time     `json:"joined_at"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Session() domain.SessionID
	MemberCount() int
	MembersSnapshot() []MemberDTO
	Has(id domain.ConnID) bool

	AddMember(id domain.ConnID, ms MemberSession)
	RemoveMember(id domain.ConnID) bool
	Broadcast(exclude domain.ConnID, data Frame) PublishResult
}

type RoomInfo struct {
	Session     domain.SessionID `json:"session_id"`
	MemberCount int              `json:"member_count"`
}

// RoomManager owns the session -> room table. Rooms exist only while
// they have members.
type RoomManager interface {
	Join(sid domain.SessionID, id domain.ConnID, ms MemberSession)
	Leave(sid domain.SessionID, id domain.ConnID) bool
	Broadcast(sid domain.SessionID, exclude domain.ConnID, data Frame) PublishResult
	GetRoom(sid domain.SessionID) (RoomService, bool)
	List() []RoomInfo
	Close()
}
