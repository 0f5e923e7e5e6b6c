package cli

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileOverride names an env file that wins over the --env flag.
const EnvFileOverride = "I18NSYNC_ENV_FILE"

// ErrNoEnvFile is returned when none of the candidate files exist.
var ErrNoEnvFile = errors.New("no env file found")

// EnvLoader loads .env files with a predictable override order.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	value := fs.String("env", defaultPath, description)
	return &EnvLoader{
		value:       value,
		defaultPath: defaultPath,
	}
}

// Load overloads the first candidate file that exists and returns its path.
// Candidates, in order: $I18NSYNC_ENV_FILE, the --env value, its basename, the default path.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	var firstErr error
	for _, candidate := range l.candidates() {
		err := godotenv.Overload(candidate)
		if err == nil {
			log.Printf("Loaded environment from: %s", candidate)
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
			firstErr = fmt.Errorf("parse env file %s: %w", candidate, err)
		}
	}

	if firstErr != nil {
		return "", firstErr
	}
	return "", fmt.Errorf("%w (requested %s)", ErrNoEnvFile, l.requested())
}

func (l *EnvLoader) requested() string {
	requested := ""
	if l.value != nil {
		requested = strings.TrimSpace(*l.value)
	}
	if requested == "" {
		requested = l.defaultPath
	}
	return requested
}

func (l *EnvLoader) candidates() []string {
	out := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	add := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	add(os.Getenv(EnvFileOverride))
	requested := l.requested()
	add(requested)
	if base := filepath.Base(requested); base != "." && base != string(filepath.Separator) {
		add(base)
	}
	add(l.defaultPath)
	return out
}
