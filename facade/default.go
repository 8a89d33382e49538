package facade

import "sync"

// The process-wide default facade is created lazily on first access.
// Prefer passing an explicit *Facade; Default exists for applications
// that want a single point of coordination without plumbing.
var (
	defaultMu sync.Mutex
	defaultF  *Facade
)

// Default returns the process-wide facade, creating it on first call.
func Default() *Facade {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultF == nil {
		defaultF = New()
	}
	return defaultF
}

// SetDefault replaces the process-wide facade. Pass a facade built with
// New to install custom options as the default.
func SetDefault(f *Facade) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultF = f
}

// ResetDefault discards the process-wide facade. The next Default call
// creates a fresh one. Intended for test isolation.
func ResetDefault() {
	SetDefault(nil)
}
