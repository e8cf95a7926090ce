package store

// AddSession records an active login token.
func (s *Store) AddSession(token string, userID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
}

// RemoveSession invalidates a login token.
func (s *Store) RemoveSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

// SessionUserID resolves an active token to its user id.
func (s *Store) SessionUserID(token string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessions[token]
	return id, ok
}
