package session

import "sync"

type record struct {
	mu sync.Mutex
	s  Session
}

// Store maps a chat id to its session. Do serializes all access to one
// session so two updates for the same chat can never interleave, while
// distinct chats proceed concurrently.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*record
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*record)}
}

func (st *Store) get(chatID int64) *record {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.sessions[chatID]
	if !ok {
		r = &record{}
		st.sessions[chatID] = r
	}
	return r
}

// Do runs fn with exclusive access to the chat's session, creating an Idle
// session on first use.
func (st *Store) Do(chatID int64, fn func(*Session)) {
	r := st.get(chatID)
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.s)
}

// Snapshot returns a copy of the chat's current session. The history slice is
// copied so callers cannot mutate live state.
func (st *Store) Snapshot(chatID int64) Session {
	r := st.get(chatID)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.s
	out.History = append(out.History[:0:0], r.s.History...)
	return out
}
