// Package obs is the engine's ambient logging surface, modeled on the
// teacher's internal/debug package: a mutex-guarded writer gated by an
// environment variable, silent by default, cheap to call on the hot path
// when disabled.
package obs

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// DebugEnvVar is the environment variable that enables verbose per-file
// logging in the concept-extraction loop.
const DebugEnvVar = "IN_MEMORIA_DEBUG_PHP"

var (
	mu     sync.Mutex
	output io.Writer
	inited bool
)

func lazyInit() {
	if inited {
		return
	}
	inited = true
	if os.Getenv(DebugEnvVar) != "" {
		output = os.Stderr
	}
}

// SetOutput overrides the debug writer, bypassing the environment variable.
// Passing nil disables debug output entirely. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	inited = true
	output = w
}

// Enabled reports whether debug output is currently active.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	lazyInit()
	return output != nil
}

// Debugf writes a formatted debug line when debug output is enabled. It is
// a no-op otherwise, so call sites do not need to guard with Enabled().
func Debugf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	lazyInit()
	if output == nil {
		return
	}
	fmt.Fprintf(output, format+"\n", args...)
}
