package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// FilePermission matches the conversation log files written by SaveLog.
const FilePermission = 0644

// logEntry is the on-disk representation of an Entry.
type logEntry struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Bot       string `json:"bot"`
}

// DefaultLogName builds the default conversation log filename for a
// character: conversation_<character>_<YYYYMMDD_HHMMSS>.json.
func DefaultLogName(character string, t time.Time) string {
	name := strings.TrimSpace(character)
	if name == "" {
		name = "Character"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("conversation_%s_%s.json", name, t.Format("20060102_150405"))
}

// SaveLog writes the full history to path as a JSON array. The file is
// written wholesale on every save, not appended to.
func (h *History) SaveLog(path string) error {
	entries := h.Entries()

	out := make([]logEntry, len(entries))
	for i, e := range entries {
		out[i] = logEntry{
			Timestamp: e.Timestamp.Format(time.RFC3339),
			User:      e.User,
			Bot:       e.Bot,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation log: %w", err)
	}

	if err := os.WriteFile(path, data, FilePermission); err != nil {
		return fmt.Errorf("failed to write conversation log: %w", err)
	}

	log.Debug().Str("path", path).Int("entries", len(entries)).Msg("Saved conversation log")
	return nil
}
