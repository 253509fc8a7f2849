package onboarding

import (
	"context"
	"errors"
	"sync"

	"codeberg.org/finboard/server/finboard/categories"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
	"codeberg.org/finboard/server/internal/events"
)

// in-memory stand-ins for the postgres repositories

type memProfiles struct {
	mu     sync.Mutex
	rows   map[string]profiles.Profile
	writes int
	err    error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: map[string]profiles.Profile{}}
}

func (m *memProfiles) Upsert(_ context.Context, p profiles.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.err != nil {
		return m.err
	}

	m.rows[p.ID] = p
	return nil
}

type memCategories struct {
	mu        sync.Mutex
	rows      []categories.Category
	writes    int
	existsErr error
	// fails inserts whose name is listed
	failNames map[string]error
	panicOn   string
}

func newMemCategories() *memCategories {
	return &memCategories{failNames: map[string]error{}}
}

func (m *memCategories) Exists(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.existsErr != nil {
		return false, m.existsErr
	}

	for _, c := range m.rows {
		if c.UserID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (m *memCategories) Insert(_ context.Context, c categories.Category) error {
	if c.Nome == m.panicOn {
		panic("insert exploded")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if err, ok := m.failNames[c.Nome]; ok {
		return err
	}

	m.rows = append(m.rows, c)
	return nil
}

func (m *memCategories) countFor(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.rows {
		if c.UserID == userID {
			n++
		}
	}

	return n
}

type memSubscribers struct {
	mu     sync.Mutex
	rows   map[string]subscribers.Subscriber
	writes int
	err    error
}

func newMemSubscribers() *memSubscribers {
	return &memSubscribers{rows: map[string]subscribers.Subscriber{}}
}

func (m *memSubscribers) UpsertTrial(_ context.Context, s subscribers.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.err != nil {
		return m.err
	}

	if prev, ok := m.rows[s.UserID]; ok {
		s.CreatedAt = prev.CreatedAt
	}

	m.rows[s.UserID] = s
	return nil
}

func (m *memSubscribers) GrantTrialOnce(_ context.Context, s subscribers.Subscriber) (*subscribers.Subscriber, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.err != nil {
		return nil, false, m.err
	}

	if prev, ok := m.rows[s.UserID]; ok {
		return &prev, false, nil
	}

	m.rows[s.UserID] = s
	return &s, true, nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	released int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) Acquire(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return nil, false, l.err
	}

	if l.held[key] {
		return nil, false, nil
	}

	l.held[key] = true

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released++
	}, true, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []events.UserOnboarded
	err    error
}

func (n *fakeNotifier) PublishUserOnboarded(_ context.Context, e events.UserOnboarded) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, e)
	return n.err
}

var errStore = errors.New("connection reset by peer")
