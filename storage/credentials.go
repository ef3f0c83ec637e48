package storage

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// FileCredentialStore implements CredentialStore using a single JSON file.
type FileCredentialStore struct {
	path string
	lock *FileLock
	data *slotData
	mu   sync.RWMutex
}

// slotData is the top-level JSON structure. InstallID identifies this client
// installation and survives logins and logouts.
type slotData struct {
	Version     string       `json:"version"`
	InstallID   string       `json:"install_id"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// NewFileCredentialStore creates a credential store backed by the file at path.
// If the file exists, it is loaded; otherwise an empty slot is created.
func NewFileCredentialStore(path string) (*FileCredentialStore, error) {
	s := &FileCredentialStore{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	return s, nil
}

// load reads the JSON file into memory. Creates an empty slot if the file
// doesn't exist.
func (s *FileCredentialStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.data = &slotData{
				Version:   schemaVersion,
				InstallID: uuid.NewString(),
				UpdatedAt: time.Now(),
			}
			// Save immediately to catch permission errors early
			return s.save()
		}
		return &StorageError{Op: "read", Entity: "credentials", Err: err}
	}

	s.data = &slotData{}
	if err := json.Unmarshal(data, s.data); err != nil {
		return &StorageError{Op: "read", Entity: "credentials", Err: ErrStorageCorrupt}
	}
	if s.data.Version == "" {
		s.data.Version = schemaVersion
	}
	if s.data.InstallID == "" {
		s.data.InstallID = uuid.NewString()
	}

	return nil
}

// InstallID returns the stable identifier for this client installation.
func (s *FileCredentialStore) InstallID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.InstallID
}

// save persists the slot to disk atomically.
func (s *FileCredentialStore) save() error {
	s.data.UpdatedAt = time.Now()

	writer, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "credentials", Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: "credentials", Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "credentials", Err: err}
	}

	return nil
}

// Load returns a copy of the persisted credentials, or ErrNoCredentials if
// the slot is empty.
func (s *FileCredentialStore) Load() (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.Credentials == nil || s.data.Credentials.Token == "" {
		return nil, &StorageError{Op: "read", Entity: "credentials", Err: ErrNoCredentials}
	}
	creds := *s.data.Credentials
	return &creds, nil
}

// Save replaces the slot contents. The last login wins; there is a single
// shared slot per client.
func (s *FileCredentialStore) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *creds
	stored.SavedAt = time.Now()
	s.data.Credentials = &stored

	return s.save()
}

// Clear empties the slot. Clearing an already-empty slot is a no-op.
func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Credentials == nil {
		return nil
	}
	s.data.Credentials = nil

	return s.save()
}

// Close releases resources held by the store.
func (s *FileCredentialStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Unlock()
}
