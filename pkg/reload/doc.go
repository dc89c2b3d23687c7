// Package reload implements hot reloading of a single exported function from
// a compiled shared artifact.
//
// An external build pipeline rewrites the artifact on disk; a Controller
// detects the change by sampling the artifact's modification time on each
// access, copies the artifact to a private working location, and swaps in a
// freshly loaded module, exposing a live, type-checked function value. The
// controller never watches the filesystem for events: every call to Get makes
// an independent decision from the current on-disk state.
//
// # Core Components
//
// Controller is the reload state machine. It owns the loaded module, the
// resolved function value, and the modification-time watermark that drives
// change detection. Its single accessor, Get, performs the full
// reload-decision algorithm synchronously before returning.
//
// Loader and Module abstract the dynamic-loading facility (load a module,
// resolve an exported symbol by name, unload a module). The dl subpackage
// provides the production implementation over dlopen/dlsym/dlclose.
//
// LockProbe abstracts the rebuild lock the build pipeline holds while the
// artifact is being rewritten. The lockfile subpackage provides marker-file
// and flock based probes; by default the controller treats the existence of
// its configured lock path as "do not touch".
//
// FS abstracts the filesystem metadata reads and the artifact copy. The
// default implementation uses the os package directly.
//
// Poller wraps a Controller in the one-owner concurrency pattern: a single
// goroutine calls Get on a fixed interval and publishes the result, and any
// number of goroutines read the latest published value through Latest.
//
// # Basic Usage
//
// One controller instance manages one exported symbol:
//
//	ctrl, err := reload.New[func() int32](dl.Opener{}, &reload.Config{
//		ArtifactPath:    "/var/lib/app/plugin.so",
//		WorkingCopyPath: "/var/lib/app/plugin.loaded.so",
//		LockPath:        "/var/lib/app/plugin.lock",
//		Symbol:          "bump",
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctrl.Close()
//
//	fn, err := ctrl.Get()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(fn())
//
// # Concurrency
//
// A Controller is not safe for concurrent use; callers serialize access
// themselves. The packaged form of that contract is Poller, which owns the
// controller on a dedicated goroutine and publishes each new generation:
//
//	poller := reload.NewPoller(ctrl, nil, logger)
//	go poller.Run(ctx)
//
//	if fn, ok := poller.Latest(); ok {
//		fn()
//	}
//
// # Resource Ownership
//
// The controller is the sole owner of the mapped module. Unloading happens in
// exactly three places: before a replacement module is mapped, when symbol
// resolution fails on a freshly loaded module, and in Close. Closing a
// controller invalidates every function value it ever returned; close only
// after all users of those values have stopped calling them.
package reload
