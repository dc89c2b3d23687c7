// Package loadertest provides a scripted reload.Loader for tests. It stands
// in for the dynamic linker: modules are described by symbol tables of
// ordinary Go functions, and every open, resolve, and close is counted so
// tests can assert how many side effects a reload produced.
package loadertest

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ayazhafiz/hotreload/pkg/reload"
)

// MockLoader is a mock implementation of the reload.Loader interface.
// Each Open consumes the next planned module from its queue.
type MockLoader struct {
	mu      sync.Mutex
	queue   []*MockModule
	opens   int
	opened  []string
	openErr error
}

// NewMockLoader creates a loader that will serve the given modules in order.
func NewMockLoader(modules ...*MockModule) *MockLoader {
	return &MockLoader{queue: modules}
}

// Plan appends modules to the open queue.
func (l *MockLoader) Plan(modules ...*MockModule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = append(l.queue, modules...)
}

// SetOpenErr makes every subsequent Open fail with err until cleared.
func (l *MockLoader) SetOpenErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.openErr = err
}

// Open returns the next planned module.
func (l *MockLoader) Open(path string) (reload.Module, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.opens++
	l.opened = append(l.opened, path)

	if l.openErr != nil {
		return nil, l.openErr
	}
	if len(l.queue) == 0 {
		return nil, fmt.Errorf("no module planned for open of %s", path)
	}

	m := l.queue[0]
	l.queue = l.queue[1:]
	m.path = path
	return m, nil
}

// Opens returns the number of Open calls.
func (l *MockLoader) Opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens
}

// OpenedPaths returns the paths passed to Open, in order.
func (l *MockLoader) OpenedPaths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}

// MockModule is a mock implementation of the reload.Module interface backed
// by a symbol table of Go function values.
type MockModule struct {
	mu         sync.Mutex
	path       string
	symbols    map[string]any
	resolveErr error
	closeErr   error
	closed     bool
	closes     int
	resolves   int
}

// NewMockModule creates an empty module.
func NewMockModule() *MockModule {
	return &MockModule{symbols: make(map[string]any)}
}

// ConstModule creates a module exporting symbol as a niladic function
// returning result. Reload tests mostly need exactly this shape.
func ConstModule(symbol string, result int32) *MockModule {
	return NewMockModule().WithSymbol(symbol, func() int32 { return result })
}

// WithSymbol registers fn under name and returns the module for chaining.
func (m *MockModule) WithSymbol(name string, fn any) *MockModule {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols[name] = fn
	return m
}

// SetResolveErr makes every subsequent Resolve fail with err.
func (m *MockModule) SetResolveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolveErr = err
}

// SetCloseErr makes the next Close fail with err instead of closing.
func (m *MockModule) SetCloseErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
}

// Resolve assigns the registered symbol to the function fn points to.
func (m *MockModule) Resolve(name string, fn any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolves++
	if m.closed {
		return fmt.Errorf("module %s is closed", m.path)
	}
	if m.resolveErr != nil {
		return m.resolveErr
	}

	sym, ok := m.symbols[name]
	if !ok {
		return fmt.Errorf("symbol %q not found in %s", name, m.path)
	}

	out := reflect.ValueOf(fn)
	if out.Kind() != reflect.Pointer || out.IsNil() {
		return fmt.Errorf("symbol target must be a non-nil pointer, got %T", fn)
	}
	sv := reflect.ValueOf(sym)
	if !sv.Type().AssignableTo(out.Elem().Type()) {
		return fmt.Errorf("symbol %q has type %s, target wants %s", name, sv.Type(), out.Elem().Type())
	}

	out.Elem().Set(sv)
	return nil
}

// Close marks the module closed. Closing twice is an error, which is how
// tests detect a double free.
func (m *MockModule) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closes++
	if m.closed {
		return fmt.Errorf("module %s already closed", m.path)
	}
	if m.closeErr != nil {
		return m.closeErr
	}

	m.closed = true
	return nil
}

// Closed reports whether the module has been closed.
func (m *MockModule) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Closes returns the number of Close calls. Anything above one means the
// module was freed twice.
func (m *MockModule) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// Resolves returns the number of Resolve calls.
func (m *MockModule) Resolves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolves
}
