package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Logger writes timestamped single-line entries to stdout and to two
// append-only files: combined.log receives every level, error.log only
// errors.
type Logger struct {
	log      *logrus.Logger
	combined *os.File
	errFile  *os.File
}

type errorFileHook struct {
	w io.Writer
	f logrus.Formatter
}

func (h *errorFileHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel}
}

func (h *errorFileHook) Fire(entry *logrus.Entry) error {
	line, err := h.f.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.w.Write(line)
	return err
}

// New opens the log files under dir and builds the logger. Files are
// opened for append so repeated runs keep their history.
func New(dir string) (*Logger, error) {
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	}

	combined, err := os.OpenFile(filepath.Join(dir, "combined.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening combined log: %v", err)
	}

	errFile, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		combined.Close()
		return nil, fmt.Errorf("error opening error log: %v", err)
	}

	log := logrus.New()
	log.SetFormatter(formatter)
	log.SetOutput(io.MultiWriter(os.Stdout, combined))
	log.AddHook(&errorFileHook{w: errFile, f: formatter})

	return &Logger{log: log, combined: combined, errFile: errFile}, nil
}

func (l *Logger) entry(component, method string) *logrus.Entry {
	return l.log.WithField("at", component+"."+method)
}

func (l *Logger) Debug(component, method, message string) {
	l.entry(component, method).Debug(message)
}

func (l *Logger) Info(component, method, message string) {
	l.entry(component, method).Info(message)
}

func (l *Logger) Warning(component, method, message string) {
	l.entry(component, method).Warning(message)
}

func (l *Logger) Error(component, method, message string) {
	l.entry(component, method).Error(message)
}

// NotFound records an id the upstream has no record for. Expected during
// id-range scans, so it logs below warning level.
func (l *Logger) NotFound(component, method, message string) {
	l.entry(component, method).WithField("not_found", true).Info(message)
}

func (l *Logger) Close() error {
	var first error
	if err := l.combined.Close(); err != nil {
		first = err
	}
	if err := l.errFile.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
