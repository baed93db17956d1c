// Package progresslog keeps the append-only log of pipeline stage
// transitions.
package progresslog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// TimestampLayout renders as YYYY-Mon-DD-HH:MM:SS.
const TimestampLayout = "2006-Jan-02-15:04:05"

type Logger struct {
	path string
	now  func() time.Time
}

// New creates a logger writing to path. `now` can be nil, in which case
// the local time is used.
func New(path string, now func() time.Time) Logger {
	if now == nil {
		now = time.Now
	}
	return Logger{path: path, now: now}
}

func (l Logger) Path() string {
	return l.path
}

// Log appends "<timestamp> : <message>" to the log file. The file is
// opened and closed on every call, no handle is kept between calls.
func (l Logger) Log(message string) error {
	timestamp := l.now().Format(TimestampLayout)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "%s : %s\n", timestamp, message)
	if err != nil {
		f.Close()
		return err
	}
	err = f.Close()
	if err != nil {
		return err
	}

	slog.Info(message, "timestamp", timestamp, "log", l.path)
	return nil
}

// ParseTimestamp reads the timestamp back out of a log line, in the local
// time zone.
func ParseTimestamp(line string) (time.Time, error) {
	timestamp, _, ok := strings.Cut(line, " : ")
	if !ok {
		return time.Time{}, fmt.Errorf("malformed log line '%s'", line)
	}
	return time.ParseInLocation(TimestampLayout, timestamp, time.Local)
}
