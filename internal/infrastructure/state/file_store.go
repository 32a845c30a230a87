package state

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileChatStateStore owns the single last-known chat id: a mutex-guarded
// in-memory cell mirrored to one small text file holding the decimal form of
// the id. The file is written via create-temp-then-rename so a reader (or a
// restarted process) never observes a torn write.
type FileChatStateStore struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	chatID *int64
}

// NewFileChatStateStore creates the store and recovers the persisted value.
// Recovery never fails: a missing, empty, unreadable, or unparseable file
// just leaves the store empty.
func NewFileChatStateStore(path string, logger *zap.Logger) *FileChatStateStore {
	s := &FileChatStateStore{path: path, logger: logger}
	s.load()
	return s
}

// Get returns the current chat id, if one is known. It never performs I/O.
func (s *FileChatStateStore) Get() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chatID == nil {
		return 0, false
	}
	return *s.chatID, true
}

// Set updates the in-memory value and persists it synchronously. The file
// write happens under the same lock so concurrent setters cannot rename
// their temp files out of order and leave the file behind memory. A
// persistence failure is logged and swallowed; the in-memory value stays
// authoritative for the rest of the process lifetime.
func (s *FileChatStateStore) Set(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatID = &chatID
	s.persist(chatID)
}

func (s *FileChatStateStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no chat state file found", zap.String("path", s.path))
		} else {
			s.logger.Error("failed to read chat state file", zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		s.logger.Warn("chat state file is empty", zap.String("path", s.path))
		return
	}

	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.Warn("chat state file holds an invalid value", zap.String("path", s.path))
		return
	}

	s.mu.Lock()
	s.chatID = &chatID
	s.mu.Unlock()
	s.logger.Info("last_chat_id restored from file", zap.Int64("chat_id", chatID))
}

func (s *FileChatStateStore) persist(chatID int64) {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(chatID, 10)), 0o644); err != nil {
		s.logger.Error("failed to write chat state file", zap.String("path", tmp), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("failed to replace chat state file", zap.String("path", s.path), zap.Error(err))
		return
	}
	s.logger.Info("last_chat_id persisted to file", zap.Int64("chat_id", chatID))
}
