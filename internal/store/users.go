package store

import (
	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
)

// CreateUser registers a user, assigning its id. Email and handle
// uniqueness are checked under the lock. The first registered user becomes
// a workspace owner.
func (s *Store) CreateUser(user *models.User) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emailIndex[user.Email]; taken {
		return 0, ErrEmailTaken
	}
	if _, taken := s.handleIndex[user.Handle]; taken {
		return 0, ErrHandleTaken
	}

	if len(s.users) == 0 {
		user.PermissionID = constants.PermissionOwner
	} else {
		user.PermissionID = constants.PermissionMember
	}

	user.ID = s.nextUserID
	s.nextUserID++

	stored := *user
	s.users[user.ID] = &stored
	s.userOrder = append(s.userOrder, user.ID)
	s.emailIndex[user.Email] = user.ID
	s.handleIndex[user.Handle] = user.ID
	return user.ID, nil
}

// GetUser returns a copy of the user with the given id.
func (s *Store) GetUser(id uint64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// FindUserByEmail returns a copy of the user registered under email.
func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIndex[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

// HandleTaken reports whether a handle is already in use.
func (s *Store) HandleTaken(handle string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, taken := s.handleIndex[handle]
	return taken
}

// EmailTaken reports whether an email is already registered.
func (s *Store) EmailTaken(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, taken := s.emailIndex[email]
	return taken
}

// ListUsers returns copies of all registered users in registration order.
func (s *Store) ListUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, *s.users[id])
	}
	return users
}

// SetUserName updates a user's name and refreshes the cached display-name
// snapshots on every channel membership in the same critical section.
func (s *Store) SetUserName(userID uint64, nameFirst, nameLast string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.NameFirst = nameFirst
	user.NameLast = nameLast

	for _, channel := range s.channels {
		for i := range channel.Members {
			if channel.Members[i].UserID == userID {
				channel.Members[i].NameFirst = nameFirst
				channel.Members[i].NameLast = nameLast
			}
		}
	}
	return nil
}

// SetUserEmail updates a user's email, enforcing uniqueness.
func (s *Store) SetUserEmail(userID uint64, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if owner, taken := s.emailIndex[email]; taken && owner != userID {
		return ErrEmailTaken
	}
	delete(s.emailIndex, user.Email)
	user.Email = email
	s.emailIndex[email] = userID
	return nil
}

// SetUserHandle updates a user's handle, enforcing uniqueness.
func (s *Store) SetUserHandle(userID uint64, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if owner, taken := s.handleIndex[handle]; taken && owner != userID {
		return ErrHandleTaken
	}
	delete(s.handleIndex, user.Handle)
	user.Handle = handle
	s.handleIndex[handle] = userID
	return nil
}

// SetPermission updates a user's global permission id.
func (s *Store) SetPermission(userID uint64, permissionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.PermissionID = permissionID
	return nil
}

// SetResetCode attaches a password reset code to the user registered under
// email. Unregistered emails are ignored, matching the reset-request
// contract of not revealing which emails exist.
func (s *Store) SetResetCode(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emailIndex[email]
	if !ok {
		return
	}
	s.users[id].ResetCode = code
}

// ConsumeResetCode sets a new password hash for the user holding the reset
// code and clears the code.
func (s *Store) ConsumeResetCode(code, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == "" {
		return ErrUserNotFound
	}
	for _, user := range s.users {
		if user.ResetCode == code {
			user.PasswordHash = passwordHash
			user.ResetCode = ""
			return nil
		}
	}
	return ErrUserNotFound
}

// RemoveUser removes a user from the workspace: their memberships are
// dropped from every channel, their authored messages are anonymized to the
// reserved deleted-user id, and their sessions are revoked. Message history
// itself is preserved. The whole removal is one critical section.
func (s *Store) RemoveUser(userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}

	delete(s.emailIndex, user.Email)
	delete(s.handleIndex, user.Handle)
	delete(s.users, userID)
	for i, id := range s.userOrder {
		if id == userID {
			s.userOrder = append(s.userOrder[:i], s.userOrder[i+1:]...)
			break
		}
	}

	for _, channel := range s.channels {
		members := channel.Members[:0]
		for _, m := range channel.Members {
			if m.UserID != userID {
				members = append(members, m)
			}
		}
		channel.Members = members
	}

	for _, message := range s.messages {
		if message.UserID == userID {
			message.UserID = constants.DeletedUserID
		}
	}

	for token, id := range s.sessions {
		if id == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}
