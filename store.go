package signup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
)

// CredentialRecord is the persisted shape of one registered account.
// The raw password never appears here: salt and digest only, hex encoded.
type CredentialRecord struct {
	Salt string `json:"salt"`
	Hash string `json:"hash"`
}

// UserStore is the durable mapping from normalized email to credential
// record. It owns the persisted file exclusively: all mutations and saves
// happen under one lock so interleaved registrations cannot lose updates.
type UserStore struct {
	path    string
	mu      sync.Mutex
	records map[string]CredentialRecord
	logger  Logger
}

// NewUserStore creates a store backed by the given file path. Call Load
// before serving requests.
func NewUserStore(path string) *UserStore {
	return &UserStore{
		path:    path,
		records: map[string]CredentialRecord{},
		logger:  defLogger{},
	}
}

func (s *UserStore) WithLogger(logger Logger) *UserStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// NormalizeEmail lower-cases and trims an email so lookups and the session
// subject agree on one canonical spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Load reads the persisted file. A missing, unreadable, or corrupt file
// initializes an empty store instead of failing startup.
func (s *UserStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("user store unreadable, starting empty", "path", s.path, "error", err)
		}
		s.records = map[string]CredentialRecord{}
		return nil
	}

	records := map[string]CredentialRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("user store corrupt, starting empty", "path", s.path, "error", err)
		s.records = map[string]CredentialRecord{}
		return nil
	}

	s.records = records
	s.logger.Info("user store loaded", "path", s.path, "accounts", len(records))
	return nil
}

// Register creates a credential record for the email if none exists and
// persists the full store. The lock spans the whole read-check-write so two
// concurrent registrations for the same email cannot both pass the check.
// A persistence failure propagates: losing the write would be a silent
// account-creation failure.
func (s *UserStore) Register(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "context cancelled during registration")
	}

	email = NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[email]; exists {
		return ErrEmailTaken
	}

	salt, hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	s.records[email] = CredentialRecord{Salt: salt, Hash: hash}

	if err := s.save(); err != nil {
		// roll back the in-memory entry so memory and disk agree
		delete(s.records, email)
		return err
	}

	return nil
}

// VerifyIdentity checks the password against the stored digest. Unknown
// email and wrong password are indistinguishable so probes cannot enumerate
// accounts.
func (s *UserStore) VerifyIdentity(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "context cancelled during verification")
	}

	record, ok := s.lookup(NormalizeEmail(email))
	if !ok {
		return ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, record.Salt, record.Hash); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// Has reports whether a record exists for the normalized email
func (s *UserStore) Has(email string) bool {
	_, ok := s.lookup(NormalizeEmail(email))
	return ok
}

// Count returns the number of registered accounts
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *UserStore) lookup(email string) (CredentialRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[email]
	return record, ok
}

// save writes the full mapping through a temp file and an atomic rename so
// a crash mid-write never leaves a partial file visible to the next Load.
// Callers must hold s.mu.
func (s *UserStore) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode user store")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create temp user store file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to write user store")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to sync user store")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to close user store")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to replace user store")
	}

	return nil
}
