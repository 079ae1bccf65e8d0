package store

import (
	"context"
	"strings"
	"sync"

	"auth-fabric/internal/model"
)

// Memory is an in-process Users implementation. It backs the resource
// service's local mirror (explicitly non-persistent) and the test suites.
type Memory struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]model.User
	byUsername map[string]int64
}

func NewMemory() *Memory {
	return &Memory{
		nextID:     1,
		byID:       map[int64]model.User{},
		byUsername: map[string]int64{},
	}
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (m *Memory) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.byUsername[usernameKey(username)]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return m.byID[id], nil
}

func (m *Memory) FindByID(_ context.Context, id int64) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.byID[id]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (m *Memory) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.byUsername[usernameKey(username)]
	return exists, nil
}

func (m *Memory) Create(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := usernameKey(user.Username)
	if _, exists := m.byUsername[key]; exists {
		return model.User{}, model.ErrUserAlreadyExists
	}

	user.ID = m.nextID
	user.Version = 1
	m.nextID++

	m.byID[user.ID] = user
	m.byUsername[key] = user.ID
	return user, nil
}

func (m *Memory) Update(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.byID[user.ID]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	if current.Version != user.Version {
		return model.User{}, model.ErrInvalidInput
	}

	user.Username = current.Username
	user.Version = current.Version + 1
	m.byID[user.ID] = user
	return user, nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.byID[id]
	if !exists {
		return model.ErrUserNotFound
	}

	delete(m.byID, id)
	delete(m.byUsername, usernameKey(user.Username))
	return nil
}
