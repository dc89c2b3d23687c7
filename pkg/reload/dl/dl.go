//go:build darwin || freebsd || linux

// Package dl implements the reload loading facility over the platform
// dynamic linker (dlopen, dlsym, dlclose) using purego, so no cgo is needed.
package dl

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"

	"github.com/ayazhafiz/hotreload/pkg/reload"
)

// ErrLibraryClosed is returned when a Library is used after Close.
var ErrLibraryClosed = errors.New("dl: library is closed")

// Opener implements reload.Loader over the platform dynamic linker.
type Opener struct {
	// Flags are the dlopen mode flags. Zero means RTLD_NOW | RTLD_LOCAL:
	// resolve everything up front, and keep the module's symbols out of the
	// global namespace so successive generations cannot shadow each other.
	Flags int
}

// Open loads the shared library at path.
func (o Opener) Open(path string) (reload.Module, error) {
	return Open(path, o.Flags)
}

// Library is a shared library mapped into the process.
type Library struct {
	path   string
	flags  int
	handle uintptr
}

// Open maps the shared library at path with the given dlopen flags. Zero
// flags mean RTLD_NOW | RTLD_LOCAL.
func Open(path string, flags int) (*Library, error) {
	if flags == 0 {
		flags = purego.RTLD_NOW | purego.RTLD_LOCAL
	}

	handle, err := purego.Dlopen(path, flags)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s failed: %w", path, err)
	}

	return &Library{
		path:   path,
		flags:  flags,
		handle: handle,
	}, nil
}

// Resolve looks up the exported symbol name and binds it to fn, which must be
// a non-nil pointer to a function variable. fn is only written on success.
func (l *Library) Resolve(name string, fn any) error {
	if l.handle == 0 {
		return ErrLibraryClosed
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Func {
		return fmt.Errorf("symbol target must be a non-nil pointer to a function, got %T", fn)
	}

	addr, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return fmt.Errorf("dlsym %s in %s failed: %w", name, l.path, err)
	}

	return registerFunc(fn, addr)
}

// registerFunc binds addr to the function variable fn points to. purego
// panics on signatures it cannot marshal; that surfaces here as an error.
func registerFunc(fn any, addr uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bind symbol: %v", r)
		}
	}()
	purego.RegisterFunc(fn, addr)
	return nil
}

// Close unmaps the library. The handle and every function bound from it are
// invalid afterwards. Closing an already closed library is an error.
func (l *Library) Close() error {
	if l.handle == 0 {
		return ErrLibraryClosed
	}

	if err := purego.Dlclose(l.handle); err != nil {
		return fmt.Errorf("dlclose %s failed: %w", l.path, err)
	}

	l.handle = 0
	return nil
}

// Handle returns the underlying dlopen handle.
// It is valid only while the library remains open.
func (l *Library) Handle() uintptr {
	return l.handle
}
