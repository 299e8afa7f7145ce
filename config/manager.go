// Package config centralises configuration loading. Priority order is
// flags (applied by the caller via Set) > environment variables > .env file
// > compiled-in defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Manager holds raw key/value configuration. It is loaded once at start-up;
// unlike the teacher's ConfigManager this has no Reload — spec requires
// configuration to be read once and never changed during a run.
type Manager struct {
	mu     sync.RWMutex
	values map[string]string
	logger *zap.Logger
}

// New creates a Manager. Load must be called before use.
func New(logger *zap.Logger) *Manager {
	return &Manager{
		values: make(map[string]string),
		logger: logger,
	}
}

// Load reads defaults, then the .env file, then environment variables, in
// increasing order of priority.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadDefaults()
	m.loadEnvFile()
	m.loadEnvVars()
}

func (m *Manager) loadDefaults() {
	for k, v := range defaults {
		m.values[k] = v
	}
}

func (m *Manager) loadEnvFile() {
	envMap, err := godotenv.Read()
	if err != nil {
		m.logger.Debug(".env not found or unreadable", zap.Error(err))
		return
	}
	for k, v := range envMap {
		m.values[k] = v
	}
}

func (m *Manager) loadEnvVars() {
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			m.values[pair[0]] = pair[1]
		}
	}
}

// Set overrides a value, used for flags applied at the call site — the
// highest-priority source.
func (m *Manager) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// GetString returns a config value or "".
func (m *Manager) GetString(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

// GetInt returns a config value parsed as int, or defaultValue.
func (m *Manager) GetInt(key string, defaultValue int) int {
	v := m.GetString(key)
	if v == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return defaultValue
}

// GetFloat returns a config value parsed as float64, or defaultValue.
func (m *Manager) GetFloat(key string, defaultValue float64) float64 {
	v := m.GetString(key)
	if v == "" {
		return defaultValue
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return defaultValue
}
