// Package evidence provides sources of personality evidence for assessment and
// validates tuples at the boundary, before they reach the scoring engine.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/thebtf/facetscope/pkg/models"
)

// ErrSessionNotFound is returned when a store has no evidence for a session.
var ErrSessionNotFound = errors.New("session not found")

// Store supplies the evidence collected for a session.
type Store interface {
	GetEvidence(ctx context.Context, sessionID string) ([]models.EvidenceInput, error)
}

// MemoryStore is an in-memory Store, safe for concurrent use.
type MemoryStore struct {
	sessions map[string][]models.EvidenceInput
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]models.EvidenceInput)}
}

// Add appends evidence to a session, creating the session if needed.
func (m *MemoryStore) Add(sessionID string, items ...models.EvidenceInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], items...)
}

// GetEvidence returns a copy of the session's evidence.
func (m *MemoryStore) GetEvidence(_ context.Context, sessionID string) ([]models.EvidenceInput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return append([]models.EvidenceInput(nil), items...), nil
}

// Sessions returns the known session IDs in sorted order.
func (m *MemoryStore) Sessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// fileDocument is the on-disk layout of an evidence file.
type fileDocument struct {
	Sessions map[string][]models.EvidenceInput `json:"sessions" yaml:"sessions"`
}

// LoadFile reads a JSON or YAML evidence file into a MemoryStore. Invalid
// tuples are dropped and logged.
//
// The file layout is:
//
//	{"sessions": {"<id>": [{"facet": "trust", "domain": "work", "score": 14, "confidence": 0.6}]}}
func LoadFile(path string, log zerolog.Logger) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evidence file: %w", err)
	}

	var doc fileDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse evidence file %s: %w", path, err)
	}

	log = log.With().Str("component", "evidence-file").Str("path", path).Logger()
	store := NewMemoryStore()
	for id, items := range doc.Sessions {
		valid, rejected := Validate(items)
		for _, r := range rejected {
			log.Warn().
				Str("session", id).
				Str("facet", string(r.Item.Facet)).
				Str("domain", string(r.Item.Domain)).
				Err(r.Err).
				Msg("dropping invalid evidence")
		}
		store.Add(id, valid...)
	}

	log.Debug().Int("sessions", len(doc.Sessions)).Msg("loaded evidence file")
	return store, nil
}
