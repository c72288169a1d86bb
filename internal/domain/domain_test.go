package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSessionID(t *testing.T) {
	if _, err := ParseSessionID(""); !errors.Is(err, ErrSessionIDEmpty) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := ParseSessionID(strings.Repeat("x", MaxSessionIDLen+1)); !errors.Is(err, ErrSessionIDTooLong) {
		t.Errorf("too long: err = %v", err)
	}
	sid, err := ParseSessionID("room1")
	if err != nil || sid != "room1" {
		t.Errorf("ParseSessionID(room1) = (%q, %v)", sid, err)
	}
}

func TestNewConnection(t *testing.T) {
	if _, err := NewConnection("", "t"); !errors.Is(err, ErrConnIDEmpty) {
		t.Errorf("empty id: err = %v", err)
	}
	c, err := NewConnection(NewConnID(), strings.Repeat("t", 100))
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	if len(c.ClientToken) != MaxClientTokenLen {
		t.Errorf("client token not truncated: %d", len(c.ClientToken))
	}
	if NewConnID() == NewConnID() {
		t.Error("connection ids collide")
	}
}

func TestRoleString(t *testing.T) {
	if Role("").String() != "unknown" || RoleAgent.String() != "agent" {
		t.Error("Role.String mismatch")
	}
}
