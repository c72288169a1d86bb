package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManagerImpl creates a room on first join and deletes it when the
// last member leaves. Join and Leave hold the write lock across the
// membership change so an emptying room is never deleted under a joiner.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.SessionID]core.RoomService
}

func NewRoomManager() core.RoomManager {
	return &RoomManagerImpl{rooms: make(map[domain.SessionID]core.RoomService)}
}

func (f *RoomManagerImpl) Join(sid domain.SessionID, id domain.ConnID, ms core.MemberSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[sid]
	if !ok {
		room = core.NewRoomService(sid)
		f.rooms[sid] = room
		log.Info().Str("module", "app.rooms").Str("session", string(sid)).Msg("session active")
	}
	room.AddMember(id, ms)
}

func (f *RoomManagerImpl) Leave(sid domain.SessionID, id domain.ConnID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[sid]
	if !ok {
		return false
	}
	removed := room.RemoveMember(id)
	if room.MemberCount() == 0 {
		delete(f.rooms, sid)
		log.Info().Str("module", "app.rooms").Str("session", string(sid)).Msg("session empty")
	}
	return removed
}

func (f *RoomManagerImpl) Broadcast(sid domain.SessionID, exclude domain.ConnID, data core.Frame) core.PublishResult {
	room, ok := f.GetRoom(sid)
	if !ok {
		return core.PublishResult{}
	}
	return room.Broadcast(exclude, data)
}

func (f *RoomManagerImpl) GetRoom(sid domain.SessionID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[sid]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for sid, r := range f.rooms {
		out = append(out, core.RoomInfo{Session: sid, MemberCount: r.MemberCount()})
	}
	f.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Session < out[j].Session })
	return out
}

// Close forgets every room. Transports are closed by their owners.
func (f *RoomManagerImpl) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.rooms)
	f.rooms = make(map[domain.SessionID]core.RoomService)
	log.Info().Str("module", "app.rooms").Int("count", n).Msg("dropped all sessions")
}
