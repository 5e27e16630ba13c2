package logger

import "sync"

var (
	globalMu   sync.RWMutex
	global     *Logger
	components = map[string]*Logger{}
)

// Init configures the global logger. Component loggers handed out by Get
// before the call are rebuilt on next use.
func Init(cfg Config, serviceName string) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(&cfg, serviceName))
}

// SetGlobalLogger replaces the global logger and drops derived component loggers.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
	clear(components)
}

// GetGlobalLogger returns the global logger, creating a console one on first use.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = NewDefault("voiceorder")
	}
	return global
}

// Register pins the logger returned by Get(name).
func Register(name string, l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	components[name] = l
}

// Get returns the component logger for name, deriving it from the global
// logger the first time it is asked for.
func Get(name string) *Logger {
	globalMu.RLock()
	l, ok := components[name]
	globalMu.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	globalMu.Lock()
	defer globalMu.Unlock()
	if existing, ok := components[name]; ok {
		return existing
	}
	components[name] = l
	return l
}

// WithComponent derives a component logger from the global logger without caching it.
func WithComponent(name string) *Logger { return GetGlobalLogger().WithComponent(name) }

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }
