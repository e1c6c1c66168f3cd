package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys contains attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-app-token":         true,
	"x-auth-token":        true,
	"api_key":             true,
	"apikey":              true,
	"api-key":             true,
	"app_key":             true,
	"app_id":              true,
	"access_token":        true,
	"password":            true,
	"session":             true,
}

// sensitiveKeywords mark a key as sensitive when contained in it.
// The bare word "key" is left out because of columns such as "sort_key".
var sensitiveKeywords = []string{
	"password", "secret", "token", "auth", "credential", "signature",
}

// sensitiveParams are URL query parameters whose values are masked.
var sensitiveParams = map[string]bool{
	"key":          true,
	"api_key":      true,
	"apikey":       true,
	"app_key":      true,
	"app_id":       true,
	"token":        true,
	"access_token": true,
	"signature":    true,
	"sig":          true,
	"password":     true,
}

// sensitivePatterns match values that are masked regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
}

// RedactingHandler wraps an slog.Handler and masks credentials in attributes
// before passing records on.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler creates a RedactingHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the wrapped handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes masked and added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr masks a single attribute, recursing into groups.
func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	s := a.Value.String()
	if isSensitiveValue(s) {
		return slog.String(a.Key, MaskValue)
	}
	if strings.Contains(s, "://") {
		return slog.String(a.Key, RedactURL(s))
	}
	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// RedactURL masks the password in the userinfo and the values of
// credential query parameters. Strings that do not parse as URLs are
// returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	changed := false
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), MaskValue)
		} else {
			u.User = url.User(MaskValue)
		}
		changed = true
	}

	if u.RawQuery != "" {
		query := u.Query()
		for name, values := range query {
			if !sensitiveParams[strings.ToLower(name)] {
				continue
			}
			for i := range values {
				values[i] = MaskValue
			}
			changed = true
		}
		if changed {
			u.RawQuery = query.Encode()
		}
	}

	if !changed {
		return raw
	}
	return u.String()
}

// NewLogger creates a text logger that masks credentials.
// verbose sets the level to Debug; otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a JSON logger that masks credentials.
// verbose sets the level to Debug; otherwise Warn.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
