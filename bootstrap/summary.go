package bootstrap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
)

// RouteInfo is one registered HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary collects what the service looks like once started.
type Summary struct {
	Name            string
	Version         string
	StartupDuration time.Duration
	Routes          []RouteInfo
	Settings        map[string]string
	Health          *observability.ServiceHealth
}

// NewSummary creates an empty summary.
func NewSummary(name, version string) *Summary {
	return &Summary{Name: name, Version: version, Settings: map[string]string{}}
}

// AddRoute records a route.
func (s *Summary) AddRoute(method, path string) {
	s.Routes = append(s.Routes, RouteInfo{Method: method, Path: path})
}

// Set records a named setting, e.g. the active recognizer.
func (s *Summary) Set(key, value string) {
	s.Settings[key] = value
}

// SetHealth stores the ready-check result.
func (s *Summary) SetHealth(sh *observability.ServiceHealth) { s.Health = sh }

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) { s.StartupDuration = d }

// Lines renders the summary, one line per entry, in a stable order.
func (s *Summary) Lines() []string {
	lines := []string{fmt.Sprintf("%s %s started in %s", s.Name, s.Version, s.StartupDuration.Round(time.Millisecond))}

	keys := make([]string, 0, len(s.Settings))
	for k := range s.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %-12s %s", k, s.Settings[k]))
	}

	if s.Health != nil {
		for _, c := range s.Health.Components {
			line := fmt.Sprintf("  [%s] %s", strings.ToUpper(string(c.Status)), c.Name)
			if c.Message != "" {
				line += " (" + c.Message + ")"
			}
			lines = append(lines, line)
		}
	}

	routes := append([]RouteInfo(nil), s.Routes...)
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	for _, r := range routes {
		lines = append(lines, fmt.Sprintf("  %-6s %s", r.Method, r.Path))
	}
	return lines
}

// Display logs the summary at info level.
func (s *Summary) Display(log *logger.Logger) {
	for _, line := range s.Lines() {
		log.Info(line)
	}
}
