package llm

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Dialect translates the neutral completion types to one provider's wire
// format.
type Dialect interface {
	Name() string
	// ChatPath is relative to the configured base URL.
	ChatPath() string
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var dialects struct {
	sync.RWMutex
	byName map[string]Dialect
}

// RegisterDialect makes d selectable by name. Dialect packages register from
// init, so callers import them for effect:
//
//	import _ "github.com/kbukum/voiceorder/llm/openai"
//
// Registering nil or the same name twice panics.
func RegisterDialect(name string, d Dialect) {
	if d == nil {
		panic("llm: RegisterDialect with nil dialect " + name)
	}
	dialects.Lock()
	defer dialects.Unlock()
	if _, dup := dialects.byName[name]; dup {
		panic("llm: dialect " + name + " registered twice")
	}
	if dialects.byName == nil {
		dialects.byName = make(map[string]Dialect)
	}
	dialects.byName[name] = d
}

func GetDialect(name string) (Dialect, error) {
	dialects.RLock()
	defer dialects.RUnlock()
	if d, ok := dialects.byName[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("llm: no dialect %q; registered: %v", name, slices.Sorted(maps.Keys(dialects.byName)))
}

// Dialects lists registered dialect names in order.
func Dialects() []string {
	dialects.RLock()
	defer dialects.RUnlock()
	return slices.Sorted(maps.Keys(dialects.byName))
}
