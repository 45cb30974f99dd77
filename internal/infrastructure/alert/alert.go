package alert

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// FileAlerter appends one timestamped line per incident to the alert log
// and mirrors it to the error log. Write failures are logged and swallowed:
// losing an alert must never take the run down with it.
type FileAlerter struct {
	mu   sync.Mutex
	path string
}

func NewFileAlerter(path string) *FileAlerter {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	return &FileAlerter{path: path}
}

func (a *FileAlerter) Alert(msg string) {
	log.Error().Msg("ALERT: " + msg)

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error().Err(err).Str("path", a.path).Msg("alert log open failed")
		return
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
	if _, err := f.WriteString(line); err != nil {
		log.Error().Err(err).Str("path", a.path).Msg("alert log write failed")
	}
}
