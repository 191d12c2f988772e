// Package profile persists named connection profiles in a section-based INI
// file: one section per profile with host, user, and password keys.
//
// The store is plain keyed persistence with no business logic. It assumes a
// single writer (one interactive session); concurrent writers from multiple
// processes are not coordinated.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"

	"github.com/hawkdb/hawkdb/internal/errs"
)

// ReservedSection is the example section written when the backing file is
// first created. It is never returned by List.
const ReservedSection = "example"

// Profile is one saved connection. Copies handed to callers are independent
// of the store's backing data.
type Profile struct {
	Name     string
	Host     string
	User     string
	Password string
}

// Store reads and writes profiles in one INI file. Every call re-reads the
// file rather than caching a parsed copy, so external edits between calls
// are never lost to a stale overwrite.
type Store struct {
	path string
}

// NewStore opens the store at path, creating the file (and its parent
// directories) with an empty reserved section if it does not exist yet.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.ensureExists(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureExists() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errs.Wrap(errs.ErrKindIOFailure,
			fmt.Sprintf("cannot create profile directory for %s", s.path), err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrKindIOFailure,
			fmt.Sprintf("cannot access profile file %s", s.path), err)
	}

	cfg := ini.Empty()
	sec, err := cfg.NewSection(ReservedSection)
	if err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, "cannot initialize profile file", err)
	}
	for _, key := range []string{"host", "user", "password"} {
		if _, err := sec.NewKey(key, ""); err != nil {
			return errs.Wrap(errs.ErrKindIOFailure, "cannot initialize profile file", err)
		}
	}
	return s.write(cfg)
}

func (s *Store) read() (*ini.File, error) {
	cfg, err := ini.Load(s.path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindIOFailure,
			fmt.Sprintf("cannot read profile file %s", s.path), err)
	}
	return cfg, nil
}

func (s *Store) write(cfg *ini.File) error {
	if err := cfg.SaveTo(s.path); err != nil {
		return errs.Wrap(errs.ErrKindIOFailure,
			fmt.Sprintf("cannot write profile file %s", s.path), err)
	}
	return nil
}

// List returns the saved profile names in file order, excluding the INI
// default section and the reserved example section. An empty store yields
// an empty slice, not an error.
func (s *Store) List() ([]string, error) {
	cfg, err := s.read()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection || sec.Name() == ReservedSection {
			continue
		}
		names = append(names, sec.Name())
	}
	return names, nil
}

// Save upserts the named profile and persists immediately.
func (s *Store) Save(name, host, user, password string) error {
	cfg, err := s.read()
	if err != nil {
		return err
	}

	sec := cfg.Section(name)
	sec.Key("host").SetValue(host)
	sec.Key("user").SetValue(user)
	sec.Key("password").SetValue(password)
	return s.write(cfg)
}

// Load returns a copy of the named profile, or errs.ErrKindNotFound.
func (s *Store) Load(name string) (*Profile, error) {
	cfg, err := s.read()
	if err != nil {
		return nil, err
	}

	sec, err := cfg.GetSection(name)
	if err != nil {
		return nil, errs.New(errs.ErrKindNotFound, fmt.Sprintf("profile %q not found", name))
	}

	return &Profile{
		Name:     name,
		Host:     sec.Key("host").String(),
		User:     sec.Key("user").String(),
		Password: sec.Key("password").String(),
	}, nil
}

// Delete removes the named profile. Returns true if it was removed, false
// when no profile with that name existed.
func (s *Store) Delete(name string) (bool, error) {
	cfg, err := s.read()
	if err != nil {
		return false, err
	}

	if _, err := cfg.GetSection(name); err != nil {
		return false, nil
	}

	cfg.DeleteSection(name)
	if err := s.write(cfg); err != nil {
		return false, err
	}
	return true, nil
}
