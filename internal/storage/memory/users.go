package memory

import (
	"context"
	"time"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/storage"
)

func (m *Store) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[user.Email]; exists {
		return storage.ErrEmailTaken
	}

	stored := *user
	m.users[stored.ID] = &stored
	m.emails[stored.Email] = stored.ID
	return nil
}

func (m *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, exists := m.emails[email]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	user := *m.users[userID]
	return &user, nil
}

func (m *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, exists := m.users[userID]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	user := *stored
	return &user, nil
}

func (m *Store) SetUserName(ctx context.Context, userID, name string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[userID]
	if !exists {
		return storage.ErrUserNotFound
	}
	user.Name = name
	user.UpdatedAt = updatedAt
	return nil
}
