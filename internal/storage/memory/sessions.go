package memory

import (
	"context"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/storage"
)

func (m *Store) ReplaceUserSessions(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, stored := range m.sessions {
		if stored.UserID == session.UserID {
			delete(m.sessions, id)
		}
	}

	stored := *session
	m.sessions[stored.ID] = &stored
	return nil
}

func (m *Store) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, exists := m.sessions[sessionID]
	if !exists {
		return nil, storage.ErrSessionNotFound
	}
	session := *stored
	return &session, nil
}

func (m *Store) GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, stored := range m.sessions {
		if stored.RefreshToken == refreshToken && stored.Fingerprint == fingerprint {
			session := *stored
			return &session, nil
		}
	}
	return nil, storage.ErrSessionNotFound
}

func (m *Store) UpdateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.sessions[session.ID]
	if !exists {
		return storage.ErrSessionNotFound
	}
	stored.RefreshToken = session.RefreshToken
	stored.ExpiresAt = session.ExpiresAt
	stored.UpdatedAt = session.UpdatedAt
	return nil
}

func (m *Store) DeleteUserSessions(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, stored := range m.sessions {
		if stored.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}
