// Package model implements the proxy registry: named holders of
// application data, independent of any view binding.
package model

import (
	"errors"
	"sync"
)

// Sentinel errors for the proxy registry.
var (
	// ErrNilProxy is returned when a nil proxy is registered.
	ErrNilProxy = errors.New("proxy cannot be nil")

	// ErrEmptyName is returned when a proxy name is empty.
	ErrEmptyName = errors.New("proxy name cannot be empty")
)

// Proxy is a named holder of application data.
type Proxy interface {
	// ProxyName returns the unique registry key for this proxy.
	ProxyName() string

	// Data returns the held data.
	Data() any

	// SetData replaces the held data.
	SetData(data any)

	// OnRegister is called after the proxy has been registered, outside
	// the registry mutex.
	OnRegister()

	// OnRemove is called after the proxy has been removed, outside the
	// registry mutex.
	OnRemove()
}

// BaseProxy is an embeddable default implementation of Proxy.
type BaseProxy struct {
	name string

	mu   sync.RWMutex
	data any
}

// NewBaseProxy creates a base proxy with the given name and initial data.
func NewBaseProxy(name string, data any) BaseProxy {
	return BaseProxy{name: name, data: data}
}

// ProxyName implements Proxy.
func (p *BaseProxy) ProxyName() string { return p.name }

// Data implements Proxy.
func (p *BaseProxy) Data() any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// SetData implements Proxy.
func (p *BaseProxy) SetData(data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
}

// OnRegister implements Proxy as a no-op.
func (p *BaseProxy) OnRegister() {}

// OnRemove implements Proxy as a no-op.
func (p *BaseProxy) OnRemove() {}

// Model is the proxy registry. All methods are safe for concurrent use.
type Model struct {
	mu      sync.Mutex
	proxies map[string]Proxy
}

// New creates an empty proxy registry.
func New() *Model {
	return &Model{proxies: make(map[string]Proxy)}
}

// RegisterProxy stores a proxy under its name. Unlike mediators and
// commands, registering over an existing name overwrites it: the previous
// proxy is silently displaced and its OnRemove hook does not fire.
// OnRegister runs on the new proxy outside the registry mutex.
func (m *Model) RegisterProxy(p Proxy) error {
	if p == nil {
		return ErrNilProxy
	}
	if p.ProxyName() == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	m.proxies[p.ProxyName()] = p
	m.mu.Unlock()

	p.OnRegister()
	return nil
}

// RetrieveProxy returns the proxy registered under name, or nil.
func (m *Model) RetrieveProxy(name string) Proxy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proxies[name]
}

// HasProxy reports whether a proxy is registered under name.
func (m *Model) HasProxy(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.proxies[name]
	return ok
}

// RemoveProxy evicts and returns the proxy registered under name, or nil.
// OnRemove runs outside the registry mutex, before the proxy is returned.
func (m *Model) RemoveProxy(name string) Proxy {
	m.mu.Lock()
	p, ok := m.proxies[name]
	if ok {
		delete(m.proxies, name)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	p.OnRemove()
	return p
}

// ProxyCount returns the number of registered proxies.
func (m *Model) ProxyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.proxies)
}
