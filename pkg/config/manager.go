// Copyright (C) 2026 UniPay Project
//
// This file is part of unipay-go.
//
// unipay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// unipay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with unipay-go.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

// Manager holds named channel sections for deployments that juggle more
// than one merchant account per channel. Sections are validated on
// Register, so Get never hands out credentials that would fail at client
// construction.
//
// A Manager is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sections map[string]any
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{sections: make(map[string]any)}
}

// Register validates section and stores it under name, replacing any
// previous entry.
func (m *Manager) Register(name string, section any) error {
	if name == "" {
		return &payerr.ConfigError{Key: "name", Reason: "empty configuration name"}
	}
	if err := ValidateChannel(section); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections[name] = section
	return nil
}

// Get returns the section registered under name.
func (m *Manager) Get(name string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section, ok := m.sections[name]
	if !ok {
		return nil, &payerr.ConfigError{Key: name, Reason: fmt.Sprintf("configuration %q not registered", name)}
	}
	return section, nil
}

// Remove drops the section registered under name. Removing an unknown name
// is a no-op.
func (m *Manager) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sections, name)
}

// List returns the registered names in lexical order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sections))
	for name := range m.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
