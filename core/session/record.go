package session

import (
	"encoding/json"
	"errors"
)

// DefaultKey is the storage key the session record is written under.
const DefaultKey = "auth-storage"

// recordVersion is bumped when the persisted layout changes incompatibly.
const recordVersion = 0

type record struct {
	State   recordState `json:"state"`
	Version int         `json:"version"`
}

type recordState struct {
	User            *User   `json:"user"`
	AccessToken     *string `json:"accessToken"`
	RefreshToken    *string `json:"refreshToken"`
	IsAuthenticated bool    `json:"isAuthenticated"`
}

// EncodeRecord serializes a session into the persisted record layout.
func EncodeRecord(s Session) ([]byte, error) {
	r := record{
		State: recordState{
			User:            s.User,
			AccessToken:     nullable(s.AccessToken),
			RefreshToken:    nullable(s.RefreshToken),
			IsAuthenticated: s.authenticated(),
		},
		Version: recordVersion,
	}
	return json.Marshal(r)
}

// DecodeRecord parses a persisted record. IsAuthenticated is derived from the decoded
// fields, never trusted from the record. A partial session is rejected with
// ErrInconsistentRecord and an empty Session.
func DecodeRecord(data []byte) (Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Session{}, errors.Join(ErrInvalidRecord, err)
	}
	if r.Version != recordVersion {
		return Session{}, errors.Join(ErrInvalidRecord, errors.New("unsupported record version"))
	}

	s := Session{
		User:         r.State.User,
		AccessToken:  deref(r.State.AccessToken),
		RefreshToken: deref(r.State.RefreshToken),
	}

	empty := s.User == nil && s.AccessToken == "" && s.RefreshToken == ""
	if !empty && !s.authenticated() {
		return Session{}, ErrInconsistentRecord
	}

	s.IsAuthenticated = s.authenticated()
	return s, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
