package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the root logger. Unknown levels fall back to info.
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Discard returns a logger that writes nowhere, for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Named clones l and tags every entry with who=name.
func Named(l *logrus.Logger, name string) *logrus.Logger {
	hooks := make(logrus.LevelHooks, len(l.Hooks))
	for lvl, hs := range l.Hooks {
		hooks[lvl] = append([]logrus.Hook(nil), hs...)
	}

	ll := &logrus.Logger{
		Out:          l.Out,
		Formatter:    l.Formatter,
		Hooks:        hooks,
		Level:        l.Level,
		ExitFunc:     l.ExitFunc,
		ReportCaller: l.ReportCaller,
	}
	ll.AddHook(Who{Name: name})
	return ll
}

type Who struct {
	Name string
}

func (w Who) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (w Who) Fire(entry *logrus.Entry) error {
	entry.Data["who"] = w.Name
	return nil
}
