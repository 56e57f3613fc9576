package logger

import (
	"sync"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers a component logger derived from base for each
// name. A nil base uses the global logger. Call it after Init so the
// registered loggers carry the configured level and format.
func RegisterDefaults(base *Logger, names ...string) {
	if base == nil {
		base = GetGlobalLogger()
	}
	for _, name := range names {
		Register(name, base.WithComponent(name))
	}
}

// Registered reports whether name has a registered logger.
func Registered(name string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.loggers[name]
	return ok
}
