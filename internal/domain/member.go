package domain

import "time"

// Role is a self-declared, advisory label. It never gates routing.
type Role string

const (
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
)

func (r Role) String() string {
	if r == "" {
		return "unknown"
	}
	return string(r)
}

// Member represents a connection's participation in a session.
// No transport or lifecycle logic here.
type Member struct {
	Conn     *Connection
	Role     Role
	JoinedAt time.Time
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(conn *Connection, role Role) *Member {
	return &Member{Conn: conn, Role: role, JoinedAt: time.Now()}
}
