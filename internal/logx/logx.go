// Package logx sets up the process-wide slog logger.
package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// LevelFromFlags returns the level selected by the usual -vv (debug),
// -v (info) and -q (error) flags, defaulting to warn. More verbose flags
// win over quieter ones.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger writing to w. Level tags are coloured when w is
// a terminal that supports it.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok {
		profile = termenv.NewOutput(f).EnvColorProfile()
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(slog.LevelKey, colorLevel(profile, lvl))
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetDefault installs New(w, level) as the default logger and returns it.
func SetDefault(w io.Writer, level slog.Leveler) *slog.Logger {
	l := New(w, level)
	slog.SetDefault(l)
	return l
}

func colorLevel(profile termenv.Profile, level slog.Level) string {
	s := profile.String(level.String())
	switch {
	case level >= slog.LevelError:
		s = s.Foreground(profile.Color("1")).Bold()
	case level >= slog.LevelWarn:
		s = s.Foreground(profile.Color("3"))
	case level >= slog.LevelInfo:
		s = s.Foreground(profile.Color("4"))
	default:
		s = s.Foreground(profile.Color("8"))
	}
	return s.String()
}
