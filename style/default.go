package style

import (
	"sync"

	"github.com/agentuity/go-cssinjs/dom"
)

var (
	defaultMu       sync.Mutex
	defaultRegister *Register
)

// Default returns the process-wide shared register, creating it lazily with
// its own document on first use. Consumers that need isolation create their
// own Register with New instead.
func Default() *Register {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegister == nil {
		defaultRegister = New(WithContainer(dom.NewDocument()))
	}
	return defaultRegister
}

// ResetDefault tears down the shared register. The next Default call
// creates a fresh one.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegister != nil {
		defaultRegister.Close()
		defaultRegister = nil
	}
}
