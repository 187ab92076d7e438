package telegram

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/streamscout/streamscout/filesystem"
)

// Session is a run driven from a chat.
type Session struct {
	ID      string    `json:"id"`
	ChatID  string    `json:"chat_id"`
	Started time.Time `json:"started"`
}

// Sessions is the registry of active sessions, shared with the bot server
// through a file.
type Sessions struct {
	mu     sync.Mutex
	cacher *gache.Cache[map[string]*Session]
}

// NewSessions opens the registry stored at path.
func NewSessions(path string) *Sessions {
	return &Sessions{
		cacher: gache.New[map[string]*Session](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (s *Sessions) all() (map[string]*Session, error) {
	cached, expired, err := s.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Session), nil
	}
	return cached, nil
}

// Start registers a session.
func (s *Sessions) Start(id, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.all()
	if err != nil {
		return err
	}

	sessions[id] = &Session{ID: id, ChatID: chatID, Started: time.Now()}
	return s.cacher.Set(sessions)
}

// Get returns the session with id.
func (s *Sessions) Get(id string) (*Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.all()
	if err != nil {
		return nil, false, err
	}

	session, ok := sessions[id]
	return session, ok, nil
}

// Delete removes a session. Removing an unknown session is not an error.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.all()
	if err != nil {
		return err
	}

	if _, ok := sessions[id]; !ok {
		return nil
	}

	delete(sessions, id)
	return s.cacher.Set(sessions)
}
