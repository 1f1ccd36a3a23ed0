// Package log holds the slog plumbing shared by the commands: a handler that
// keeps secrets out of script logs and a size-rotated log file.
package log

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys are attribute key fragments whose values are never logged.
// Matching is case-insensitive.
var sensitiveKeys = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"apikey",
	"api_key",
	"credential",
}

// commandKeys are attributes carrying raw script lines. Their values are
// logged with inline secrets scrubbed.
var commandKeys = map[string]struct{}{
	"command": {},
	"script":  {},
}

var (
	// -Password 'x', -Token:$x, -ApiKey "x"
	paramSecret = regexp.MustCompile(`(?i)(^|\s)(-(?:password|passwd|secret|token|apikey|accesskey|credential)\w*)(\s+|:)('[^']*'|"[^"]*"|\S+)`)
	// $adminPassword = 'x'
	varSecret = regexp.MustCompile(`(?i)(\$\w*(?:password|passwd|secret|token|apikey)\w*\s*=\s*)('[^']*'|"[^"]*"|\S+)`)
	// ConvertTo-SecureString 'x' -AsPlainText
	plainText = regexp.MustCompile(`(?i)(ConvertTo-SecureString\s+(?:-String\s+)?)('[^']*'|"[^"]*"|\S+)`)
)

// RedactingHandler is a slog.Handler that hides credentials before passing
// records on.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		args := make([]any, len(group))
		for i, attr := range group {
			args[i] = redactAttr(attr)
		}
		return slog.Group(a.Key, args...)
	}

	key := strings.ToLower(a.Key)
	for _, sens := range sensitiveKeys {
		if strings.Contains(key, sens) {
			return slog.String(a.Key, redacted)
		}
	}

	if _, ok := commandKeys[key]; ok && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, ScrubCommand(a.Value.String()))
	}
	return a
}

// ScrubCommand replaces literal secrets in a PowerShell command line.
func ScrubCommand(line string) string {
	line = paramSecret.ReplaceAllString(line, "${1}${2}${3}"+redacted)
	line = varSecret.ReplaceAllString(line, "${1}"+redacted)
	return plainText.ReplaceAllString(line, "${1}"+redacted)
}
