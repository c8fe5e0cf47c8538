package tempfiles

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"reelforge/internal/services"
)

// Input describes one buffer to materialize. A nil Data means the input is
// absent and no file is created for it.
type Input struct {
	Key    string
	Suffix string
	Data   []byte
}

// Set owns the files created by one Materialize call.
type Set struct {
	mu     sync.Mutex
	paths  map[string]string
	order  []string
	closed bool
}

// Materialize writes every present input to its own file in dir (the system
// temp dir when empty). File names start with prefix and a per-call UUID so
// concurrent calls never collide. If any write fails, files already created
// by this call are removed before the error is returned.
func Materialize(dir, prefix string, inputs ...Input) (*Set, error) {
	callPrefix := fmt.Sprintf("%s%s-", sanitizePrefix(prefix), uuid.NewString())
	set := &Set{paths: make(map[string]string, len(inputs))}

	seen := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		key := strings.TrimSpace(input.Key)
		if key == "" {
			return nil, services.Wrap(services.ErrValidation, "materialize", "check input", "input key is empty", nil)
		}
		if _, dup := seen[key]; dup {
			return nil, services.Wrap(services.ErrValidation, "materialize", "check input", fmt.Sprintf("duplicate input key %q", key), nil)
		}
		seen[key] = struct{}{}
	}

	for _, input := range inputs {
		if input.Data == nil {
			continue
		}
		path, err := writeTemp(dir, callPrefix+input.Key+"-*"+normalizeSuffix(input.Suffix), input.Data)
		if err != nil {
			cleanupErr := set.Close()
			return nil, services.Wrap(services.ErrResource, "materialize", "write "+input.Key, "", errors.Join(err, cleanupErr))
		}
		set.paths[input.Key] = path
		set.order = append(set.order, input.Key)
	}
	return set, nil
}

func writeTemp(dir, pattern string, data []byte) (string, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	path := file.Name()
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Path returns the file written for key, if the input was present.
func (s *Set) Path(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.paths[key]
	return path, ok
}

// Paths returns a copy of the key to path mapping.
func (s *Set) Paths() map[string]string {
	out := map[string]string{}
	if s == nil {
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, path := range s.paths {
		out[key] = path
	}
	return out
}

// Close removes every file in the set. It is safe to call more than once.
func (s *Set) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := len(s.order) - 1; i >= 0; i-- {
		path := s.paths[s.order[i]]
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return services.Wrap(services.ErrResource, "materialize", "cleanup", "", err)
	}
	return nil
}

func normalizeSuffix(suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return ""
	}
	suffix = strings.ReplaceAll(suffix, string(os.PathSeparator), "")
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return suffix
}

func sanitizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	prefix = strings.ReplaceAll(prefix, string(os.PathSeparator), "_")
	if prefix == "" {
		return "reelforge-"
	}
	if !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}
	return prefix
}
