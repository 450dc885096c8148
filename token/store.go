// Package token persists the credential pair and the cached identity of the
// signed-in staff member.
package token

import (
	"encoding/json"
	"fmt"

	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/staff"
	"github.com/rs/zerolog/log"
)

// Slot names. They match the keys the browser client kept in local storage so an
// exported profile can be imported as-is.
const (
	SlotAccessToken  = "accessToken"
	SlotRefreshToken = "refreshToken"
	SlotIdentity     = "user"
)

var allSlots = []string{SlotAccessToken, SlotRefreshToken, SlotIdentity}

// Store is the token store contract used by the session service and the API client.
type Store interface {
	// Save writes both tokens and the identity as one unit.
	Save(pair Pair, identity staff.Identity) error
	// Clear removes every slot. Clearing an empty store is not an error.
	Clear() error
	HasToken() bool
	CurrentToken() (string, bool)
	// CurrentIdentity returns false when the identity is absent or unreadable.
	CurrentIdentity() (staff.Identity, bool)
}

// Backend persists named string slots.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	// Put writes all values atomically.
	Put(values map[string]string) error
	// Delete removes the keys; missing keys are ignored.
	Delete(keys ...string) error
}

type Option func(*SlotStore)

// WithSealer seals every slot value before it reaches the backend.
func WithSealer(s *Sealer) Option {
	return func(ss *SlotStore) {
		ss.sealer = s
	}
}

// SlotStore implements Store over a Backend.
type SlotStore struct {
	backend Backend
	sealer  *Sealer
}

var _ Store = (*SlotStore)(nil)

func New(backend Backend, options ...Option) *SlotStore {
	ss := &SlotStore{backend: backend}
	for _, opt := range options {
		opt(ss)
	}
	return ss
}

func (s *SlotStore) Save(pair Pair, identity staff.Identity) error {
	if pair.AccessToken == "" {
		return fmt.Errorf("token save: empty access token")
	}
	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("token save: encode identity: %w", err)
	}

	values := map[string]string{
		SlotAccessToken:  pair.AccessToken,
		SlotRefreshToken: pair.RefreshToken,
		SlotIdentity:     string(identityJSON),
	}
	for k, v := range values {
		sealed, err := s.seal(v)
		if err != nil {
			return fmt.Errorf("token save: seal %s: %w", k, err)
		}
		values[k] = sealed
	}

	if err := s.backend.Put(values); err != nil {
		return fmt.Errorf("token save: %w", err)
	}
	return nil
}

func (s *SlotStore) Clear() error {
	if err := s.backend.Delete(allSlots...); err != nil {
		return fmt.Errorf("token clear: %w", err)
	}
	return nil
}

func (s *SlotStore) HasToken() bool {
	_, ok := s.CurrentToken()
	return ok
}

func (s *SlotStore) CurrentToken() (string, bool) {
	return s.read(SlotAccessToken)
}

// CurrentRefreshToken returns the stored refresh token. Nothing refreshes with it yet;
// it is kept so a pair round-trips intact.
func (s *SlotStore) CurrentRefreshToken() (string, bool) {
	return s.read(SlotRefreshToken)
}

func (s *SlotStore) CurrentIdentity() (staff.Identity, bool) {
	identity, ok, err := s.identity()
	if err != nil {
		log.Warn().Err(err).Msg("stored identity is unusable, treating as no session")
		return staff.Identity{}, false
	}
	return identity, ok
}

// Verify reports an error wrapping ErrCorruptValue when a stored slot cannot be opened
// or the identity cannot be decoded. Absent slots are not an error.
func (s *SlotStore) Verify() error {
	for _, key := range allSlots {
		if _, _, err := s.slot(key); err != nil {
			return err
		}
	}
	_, _, err := s.identity()
	return err
}

func (s *SlotStore) identity() (staff.Identity, bool, error) {
	raw, ok, err := s.slot(SlotIdentity)
	if err != nil || !ok {
		return staff.Identity{}, false, err
	}
	var identity staff.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return staff.Identity{}, false, corrupt(SlotIdentity, err)
	}
	if err := identity.Validate(); err != nil {
		return staff.Identity{}, false, corrupt(SlotIdentity, err)
	}
	return identity, true, nil
}

func (s *SlotStore) read(key string) (string, bool) {
	value, ok, err := s.slot(key)
	if err != nil {
		log.Warn().Err(err).Str("slot", key).Msg("stored value is unusable")
		return "", false
	}
	return value, ok
}

// slot returns the opened value of key.
func (s *SlotStore) slot(key string) (string, bool, error) {
	value, ok, err := s.backend.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("token read %s: %w", key, err)
	}
	if !ok || value == "" {
		return "", false, nil
	}
	opened, err := s.open(value)
	if err != nil {
		return "", false, corrupt(key, err)
	}
	return opened, opened != "", nil
}

func corrupt(key string, cause error) error {
	return clinicerrors.Wrapf(fmt.Errorf("%w: %w", clinicerrors.ErrCorruptValue, cause), "token slot %s", key)
}

func (s *SlotStore) seal(v string) (string, error) {
	if s.sealer == nil {
		return v, nil
	}
	return s.sealer.Seal(v)
}

func (s *SlotStore) open(v string) (string, error) {
	if s.sealer == nil {
		return v, nil
	}
	return s.sealer.Open(v)
}
