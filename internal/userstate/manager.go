// Package userstate keeps the client's in-memory "who is signed in" record
// consistent with a durable local cache across reloads. Its load-bearing
// rule: once the account identifier is known, no partial update may silently
// drop it.
package userstate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// Record mirrors the subset of the seller account the client needs for
// session continuity, plus the durable account identifier.
type Record struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
	BaseID          string `json:"baseID"`
	IsVerified      bool   `json:"isVerified"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	FirstName       *string
	LastName        *string
	Email           *string
	ProfileImageURL *string
	BaseID          *string
	IsVerified      *bool
}

// Manager is the explicit state holder for the current-user record. All
// operations are synchronous; Init is latched so repeated activations never
// clobber in-memory state with a stale cache read.
type Manager struct {
	mu      sync.Mutex
	once    sync.Once
	cache   Cache
	current Record
}

func NewManager(cache Cache) *Manager {
	return &Manager{cache: cache}
}

// Init adopts the cached record if present and parseable. A corrupt cache
// is discarded and the manager starts from an empty record. Runs exactly
// once; later calls are no-ops.
func (m *Manager) Init() {
	m.once.Do(func() {
		data, err := m.cache.Read()
		if err != nil {
			if !errors.Is(err, ErrNoCache) {
				slog.Warn("failed to read cached user state", "err", err)
			}
			return
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			slog.Warn("discarding corrupt user state cache", "err", err)
			_ = m.cache.Remove()
			return
		}
		m.mu.Lock()
		m.current = r
		m.mu.Unlock()
	})
}

// Current returns a snapshot of the in-memory record.
func (m *Manager) Current() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set merges the patch onto the current record field-wise and persists the
// result. The BaseID is sticky: a patch that omits it never erases a known
// identifier. A candidate equal to the current record is skipped entirely,
// with no state change and no cache write.
func (m *Manager) Set(p Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	candidate := m.current
	if p.FirstName != nil {
		candidate.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		candidate.LastName = *p.LastName
	}
	if p.Email != nil {
		candidate.Email = *p.Email
	}
	if p.ProfileImageURL != nil {
		candidate.ProfileImageURL = *p.ProfileImageURL
	}
	if p.BaseID != nil {
		candidate.BaseID = *p.BaseID
	}
	if p.IsVerified != nil {
		candidate.IsVerified = *p.IsVerified
	}
	return m.adopt(candidate)
}

// Transform computes the candidate record by applying fn to the current one,
// then runs the same reconciliation as Set.
func (m *Manager) Transform(fn func(Record) Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adopt(fn(m.current))
}

// Clear resets to the empty record and removes the durable cache. This is
// the only way to drop a known BaseID.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Record{}
	return m.cache.Remove()
}

// adopt applies the sticky-identifier rule and persists when the candidate
// differs from the current record. Callers must hold mu.
func (m *Manager) adopt(candidate Record) error {
	if m.current.BaseID != "" && candidate.BaseID == "" {
		candidate.BaseID = m.current.BaseID
		slog.Warn("preserved baseID that was about to be lost in update")
	}
	if candidate == m.current {
		return nil
	}
	data, err := json.Marshal(candidate)
	if err != nil {
		return err
	}
	if err := m.cache.Write(data); err != nil {
		return err
	}
	m.current = candidate
	return nil
}
