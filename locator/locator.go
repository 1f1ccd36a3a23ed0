// Package locator resolves which PowerShell executable to start.
//
// Resolution order:
//  1. any directory on PATH containing the edition's executable name; the
//     bare name is returned so the launcher relies on normal PATH lookup
//  2. on Windows only, %SYSTEMROOT%\System32\WindowsPowerShell\v1.0\powershell.exe
//
// The PATH check only asks whether an entry with that name exists. It does
// not check that the entry is a regular, executable file.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no interpreter executable could be resolved.
var ErrNotFound = errors.New("locator: failed to find powershell on this system")

// Environment variables consulted during resolution.
const (
	EnvPath       = "PATH"
	EnvSystemRoot = "SYSTEMROOT"
)

// Edition selects which PowerShell flavour to look for.
type Edition int

const (
	// EditionDesktop is Windows PowerShell (powershell.exe). Platforms
	// without it use the Core executable instead.
	EditionDesktop Edition = iota
	// EditionCore is PowerShell Core (pwsh).
	EditionCore
)

// String returns the edition name.
func (e Edition) String() string {
	switch e {
	case EditionDesktop:
		return "desktop"
	case EditionCore:
		return "core"
	default:
		return fmt.Sprintf("Edition(%d)", int(e))
	}
}

// Executable returns the file name searched for on this platform.
func (e Edition) Executable() string {
	return executableName(e)
}

// ParseEdition parses "desktop" or "core" (case-insensitive).
func ParseEdition(s string) (Edition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desktop", "windows", "powershell":
		return EditionDesktop, nil
	case "core", "pwsh":
		return EditionCore, nil
	default:
		return 0, fmt.Errorf("locator: unknown edition %q", s)
	}
}

// Locator finds the interpreter for one Edition. It is safe for concurrent
// use; it keeps no state between calls.
type Locator struct {
	name      string
	separator rune
	lookupEnv func(string) (string, bool)
	exists    func(string) bool
	fallback  func(lookupEnv func(string) (string, bool), exists func(string) bool) (string, bool)
}

// Option configures a Locator.
type Option func(*Locator)

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *Locator) { l.lookupEnv = fn }
}

// WithExists replaces the filesystem existence check.
func WithExists(fn func(string) bool) Option {
	return func(l *Locator) { l.exists = fn }
}

// WithListSeparator overrides the PATH list separator.
func WithListSeparator(sep rune) Option {
	return func(l *Locator) { l.separator = sep }
}

// WithSystemRootFallback enables or disables the %SYSTEMROOT% fallback.
// It is enabled by default on Windows only.
func WithSystemRootFallback(enabled bool) Option {
	return func(l *Locator) {
		if enabled {
			l.fallback = systemRootFallback
		} else {
			l.fallback = nil
		}
	}
}

// New returns a Locator for the given edition using the platform defaults.
func New(edition Edition, opts ...Option) *Locator {
	l := &Locator{
		name:      edition.Executable(),
		separator: os.PathListSeparator,
		lookupEnv: os.LookupEnv,
		exists:    pathExists,
		fallback:  platformFallback,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the executable name the Locator searches for.
func (l *Locator) Name() string {
	return l.name
}

// Resolve returns the executable to start, or ErrNotFound.
func (l *Locator) Resolve() (string, error) {
	if l.onPath() {
		return l.name, nil
	}

	if l.fallback != nil {
		if path, ok := l.fallback(l.lookupEnv, l.exists); ok {
			return path, nil
		}
	}

	return "", ErrNotFound
}

// onPath reports whether any PATH directory has an entry named l.name.
// A missing PATH variable counts as not found.
func (l *Locator) onPath() bool {
	systemPath, ok := l.lookupEnv(EnvPath)
	if !ok {
		return false
	}

	for _, dir := range strings.Split(systemPath, string(l.separator)) {
		if l.exists(filepath.Join(dir, l.name)) {
			return true
		}
	}
	return false
}

// systemRootFallback checks the default Windows PowerShell install location.
// cmd.exe can hide powershell from PATH, so this is tried last.
func systemRootFallback(lookupEnv func(string) (string, bool), exists func(string) bool) (string, bool) {
	root, ok := lookupEnv(EnvSystemRoot)
	if !ok || root == "" {
		return "", false
	}

	candidate := filepath.Join(root, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
	if !exists(candidate) {
		return "", false
	}
	return candidate, true
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
