package core

import (
	"sort"
	"sync"

	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	session domain.SessionID
	mu      sync.RWMutex
	byConn  map[domain.ConnID]MemberSession
}

func NewRoomService(sid domain.SessionID) RoomService {
	return &roomImpl{
		session: sid,
		byConn:  make(map[domain.ConnID]MemberSession),
	}
}

func (r *roomImpl) Session() domain.SessionID { return r.session }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

func (r *roomImpl) Has(id domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byConn[id]
	return ok
}

func (r *roomImpl) AddMember(id domain.ConnID, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[id] = ms
	log.Info().Str("module", "core.room").Str("session", string(r.session)).Str("conn", string(id)).Str("role", ms.Meta().Role.String()).Msg("member added")
}

func (r *roomImpl) RemoveMember(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byConn[id]; !ok {
		return false
	}
	delete(r.byConn, id)
	log.Info().Str("module", "core.room").Str("session", string(r.session)).Str("conn", string(id)).Msg("member removed")
	return true
}

// Broadcast holds the read lock for the whole fan-out so a member removed
// by RemoveMember never receives a frame after removal returns. TrySend
// never blocks, so a slow member cannot stall the others.
func (r *roomImpl) Broadcast(exclude domain.ConnID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for id, m := range r.byConn {
		if exclude != NoExclude && id == exclude {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "core.room").Str("session", string(r.session)).Str("conn", string(id)).Msg("delivery failed")
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("session", string(r.session)).Str("from", string(exclude)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	out := make([]MemberDTO, 0, len(r.byConn))
	for id, ms := range r.byConn {
		meta := ms.Meta()
		out = append(out, MemberDTO{ID: id, Role: meta.Role, JoinedAt: meta.JoinedAt})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out
}
