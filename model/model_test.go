package model

import (
	"errors"
	"testing"
)

type trackedProxy struct {
	BaseProxy
	registered int
	removed    int
}

func newTrackedProxy(name string, data any) *trackedProxy {
	return &trackedProxy{BaseProxy: NewBaseProxy(name, data)}
}

func (p *trackedProxy) OnRegister() { p.registered++ }
func (p *trackedProxy) OnRemove()   { p.removed++ }

func TestModel_RegisterProxy(t *testing.T) {
	m := New()
	p := newTrackedProxy("users", []string{"ada"})

	if err := m.RegisterProxy(p); err != nil {
		t.Fatalf("RegisterProxy() error = %v", err)
	}
	if !m.HasProxy("users") {
		t.Error("HasProxy = false after registration")
	}
	if p.registered != 1 {
		t.Errorf("OnRegister calls = %d, want 1", p.registered)
	}
	if got := m.RetrieveProxy("users"); got != Proxy(p) {
		t.Error("RetrieveProxy returned a different proxy")
	}
}

func TestModel_RegisterProxy_Validation(t *testing.T) {
	m := New()

	if err := m.RegisterProxy(nil); !errors.Is(err, ErrNilProxy) {
		t.Errorf("nil proxy error = %v, want ErrNilProxy", err)
	}
	p := newTrackedProxy("", nil)
	if err := m.RegisterProxy(p); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name error = %v, want ErrEmptyName", err)
	}
}

func TestModel_RegisterProxy_Overwrite(t *testing.T) {
	m := New()
	first := newTrackedProxy("users", 1)
	second := newTrackedProxy("users", 2)

	if err := m.RegisterProxy(first); err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterProxy(second); err != nil {
		t.Fatal(err)
	}

	if got := m.RetrieveProxy("users"); got != Proxy(second) {
		t.Error("re-registration must overwrite the proxy entry")
	}
	if first.removed != 0 {
		t.Error("displaced proxy must not receive OnRemove")
	}
	if second.registered != 1 {
		t.Errorf("OnRegister calls on new proxy = %d, want 1", second.registered)
	}
	if got := m.ProxyCount(); got != 1 {
		t.Errorf("ProxyCount = %d, want 1", got)
	}
}

func TestModel_RetrieveProxy_Absent(t *testing.T) {
	m := New()
	if got := m.RetrieveProxy("ghost"); got != nil {
		t.Errorf("RetrieveProxy = %v, want nil", got)
	}
}

func TestModel_RemoveProxy(t *testing.T) {
	m := New()
	p := newTrackedProxy("users", nil)
	if err := m.RegisterProxy(p); err != nil {
		t.Fatal(err)
	}

	removed := m.RemoveProxy("users")

	if removed != Proxy(p) {
		t.Error("RemoveProxy did not return the registered proxy")
	}
	if p.removed != 1 {
		t.Errorf("OnRemove calls = %d, want 1", p.removed)
	}
	if m.HasProxy("users") {
		t.Error("HasProxy = true after removal")
	}
	if m.RemoveProxy("users") != nil {
		t.Error("second removal must return nil")
	}
}

func TestBaseProxy_Data(t *testing.T) {
	p := NewBaseProxy("p", "initial")
	if p.Data() != "initial" {
		t.Errorf("Data() = %v, want initial", p.Data())
	}
	p.SetData("updated")
	if p.Data() != "updated" {
		t.Errorf("Data() = %v, want updated", p.Data())
	}
}

func TestJSONProxy(t *testing.T) {
	p, err := NewJSONProxy("settings", `{"theme":"dark","tabs":{"width":4}}`)
	if err != nil {
		t.Fatalf("NewJSONProxy() error = %v", err)
	}

	if got := p.Get("theme").String(); got != "dark" {
		t.Errorf("Get(theme) = %q, want dark", got)
	}
	if got := p.Get("tabs.width").Int(); got != 4 {
		t.Errorf("Get(tabs.width) = %d, want 4", got)
	}
	if p.Get("missing").Exists() {
		t.Error("Get(missing).Exists() = true, want false")
	}

	if err := p.Set("tabs.width", 8); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := p.Get("tabs.width").Int(); got != 8 {
		t.Errorf("Get(tabs.width) after Set = %d, want 8", got)
	}

	if err := p.Delete("theme"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if p.Get("theme").Exists() {
		t.Error("theme still present after Delete")
	}
}

func TestJSONProxy_Defaults(t *testing.T) {
	p, err := NewJSONProxy("empty", "")
	if err != nil {
		t.Fatalf("NewJSONProxy() error = %v", err)
	}
	if got := p.Document(); got != "{}" {
		t.Errorf("Document() = %q, want {}", got)
	}
}

func TestJSONProxy_Invalid(t *testing.T) {
	if _, err := NewJSONProxy("bad", "{not json"); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("error = %v, want ErrInvalidJSON", err)
	}
}

func TestJSONProxy_InRegistry(t *testing.T) {
	m := New()
	p, err := NewJSONProxy("doc", `{"n":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterProxy(p); err != nil {
		t.Fatal(err)
	}

	got, ok := m.RetrieveProxy("doc").(*JSONProxy)
	if !ok {
		t.Fatal("retrieved proxy is not a *JSONProxy")
	}
	if got.Get("n").Int() != 1 {
		t.Error("JSON proxy did not round-trip through the registry")
	}
}
