// Package storecfg resolves an operator to the provider-side account details
// a retail check needs. The authoritative source lives in the dealership
// management backend and is out of scope here; this package keeps the seam
// as a port plus an in-memory implementation.
package storecfg

import (
	"context"
	"fmt"
	"sync"

	"forecourt/pkg/platform/sentinel"
)

// StoreConfig is one operator's provider account configuration. The
// advertiser ID scopes location-adjusted metrics to the operator's site.
type StoreConfig struct {
	OperatorID   string `json:"operatorId"`
	AdvertiserID string `json:"advertiserId"`
}

// Source looks up store configuration for an operator.
type Source interface {
	Lookup(ctx context.Context, operatorID string) (StoreConfig, error)
}

// MemorySource is a map-backed Source for tests and single-tenant deploys.
type MemorySource struct {
	mu      sync.RWMutex
	configs map[string]StoreConfig
}

func NewMemorySource(configs ...StoreConfig) *MemorySource {
	s := &MemorySource{configs: make(map[string]StoreConfig, len(configs))}
	for _, c := range configs {
		s.configs[c.OperatorID] = c
	}
	return s
}

func (s *MemorySource) Lookup(_ context.Context, operatorID string) (StoreConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[operatorID]
	if !ok {
		return StoreConfig{}, fmt.Errorf("store config for operator %q: %w", operatorID, sentinel.ErrNotFound)
	}
	return cfg, nil
}

// Put adds or replaces an operator's configuration.
func (s *MemorySource) Put(cfg StoreConfig) {
	s.mu.Lock()
	s.configs[cfg.OperatorID] = cfg
	s.mu.Unlock()
}
