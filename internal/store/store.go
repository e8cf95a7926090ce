package store

import (
	"errors"
	"sync"

	"github.com/ayatori/workspace-chat-api/internal/models"
)

// Sentinel errors surfaced by store operations. Services translate these
// into their own error vocabulary.
var (
	ErrUserNotFound    = errors.New("store: user not found")
	ErrChannelNotFound = errors.New("store: channel not found")
	ErrMessageNotFound = errors.New("store: message not found")
	ErrSessionNotFound = errors.New("store: session not found")
	ErrEmailTaken      = errors.New("store: email already registered")
	ErrHandleTaken     = errors.New("store: handle already in use")
	ErrAlreadyMember   = errors.New("store: user already a member")
	ErrNotMember       = errors.New("store: user is not a member")
	ErrAlreadyOwner    = errors.New("store: user already an owner")
	ErrNotOwner        = errors.New("store: user is not an owner")
	ErrStandupActive   = errors.New("store: standup already active")
	ErrStandupIdle     = errors.New("store: no active standup")
	ErrAlreadyReacted  = errors.New("store: react already present")
	ErrNotReacted      = errors.New("store: react not present")
	ErrAlreadyPinned   = errors.New("store: message already pinned")
	ErrNotPinned       = errors.New("store: message not pinned")
	ErrPageOutOfRange  = errors.New("store: page start exceeds message count")
)

// Store is the process-local state shared by request handlers and deferred
// actions. A single RWMutex guards all aggregates: every exported method is
// one critical section, so mutations are serialized and reads observe a
// consistent point-in-time view. Compound operations that must be atomic
// (user removal, standup drain) are single methods.
type Store struct {
	mu sync.RWMutex

	users       map[uint64]*models.User
	userOrder   []uint64
	emailIndex  map[string]uint64
	handleIndex map[string]uint64

	channels     map[uint64]*models.Channel
	channelOrder []uint64

	messages        map[uint64]*models.Message
	messageOrder    []uint64
	channelMessages map[uint64][]uint64
	removed         []models.RemovedMessage

	sessions map[string]uint64

	nextUserID    uint64
	nextChannelID uint64
	nextMessageID uint64
}

// New creates an empty Store.
func New() *Store {
	s := &Store{}
	s.resetLocked()
	return s
}

// Reset clears every aggregate atomically and restarts the id counters.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.users = make(map[uint64]*models.User)
	s.userOrder = nil
	s.emailIndex = make(map[string]uint64)
	s.handleIndex = make(map[string]uint64)
	s.channels = make(map[uint64]*models.Channel)
	s.channelOrder = nil
	s.messages = make(map[uint64]*models.Message)
	s.messageOrder = nil
	s.channelMessages = make(map[uint64][]uint64)
	s.removed = nil
	s.sessions = make(map[string]uint64)
	s.nextUserID = 1
	s.nextChannelID = 1
	s.nextMessageID = 1
}
