// Package env provides a read-only driven.ConfigStore over environment
// variables and an optional .env file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ConfigStore = (*Store)(nil)

// DefaultPrefix is prepended to every variable name.
const DefaultPrefix = "SERCHA_RAG_"

// ErrReadOnly is returned by Save.
var ErrReadOnly = errors.New("environment configuration is read-only")

// Store maps dotted keys to environment variables: "llm.model" is read from
// SERCHA_RAG_LLM_MODEL. Process variables take precedence over the .env file.
type Store struct {
	mu      sync.RWMutex
	prefix  string
	path    string
	dotenv  map[string]string
	lookup  func(string) (string, bool)
	overlay map[string]any
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithLookup replaces os.LookupEnv, mainly for tests.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(s *Store) { s.lookup = lookup }
}

// NewStore creates a store reading the process environment and, when
// dotenvPath is non-empty and exists, the variables in that file.
func NewStore(dotenvPath string, opts ...Option) (*Store, error) {
	s := &Store{
		prefix:  DefaultPrefix,
		path:    dotenvPath,
		lookup:  os.LookupEnv,
		overlay: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// VarName returns the environment variable consulted for key.
func (s *Store) VarName(key string) string {
	return s.prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get retrieves a configuration value by key as a string.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.overlay[key]; ok {
		return v, true
	}
	name := s.VarName(key)
	if v, ok := s.lookup(name); ok {
		return v, true
	}
	if v, ok := s.dotenv[name]; ok {
		return v, true
	}
	return nil, false
}

// GetString retrieves a string configuration value.
func (s *Store) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	return fmt.Sprint(val)
}

// GetInt retrieves an integer configuration value.
func (s *Store) GetInt(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s.GetString(key)))
	if err != nil {
		return 0
	}
	return n
}

// GetFloat retrieves a numeric configuration value.
func (s *Store) GetFloat(key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s.GetString(key)), 64)
	if err != nil {
		return 0
	}
	return f
}

// GetBool retrieves a boolean configuration value.
func (s *Store) GetBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s.GetString(key)))
	if err != nil {
		return false
	}
	return b
}

// GetDuration parses a duration such as "90s". A bare integer is seconds.
func (s *Store) GetDuration(key string) time.Duration {
	raw := strings.TrimSpace(s.GetString(key))
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return 0
}

// GetStringSlice splits a comma-separated value, dropping blanks.
func (s *Store) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(fmt.Sprint(val), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Set overrides a value for the lifetime of the store.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay[key] = value
	return nil
}

// Save always fails; the environment cannot be written back.
func (s *Store) Save() error {
	return ErrReadOnly
}

// Load (re)reads the .env file. A missing file is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dotenv = map[string]string{}
	if s.path == "" {
		return nil
	}
	vars, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	s.dotenv = vars
	return nil
}

// Path returns the .env file path.
func (s *Store) Path() string {
	return s.path
}
