package session

import (
	"encoding/json"
	"maps"
)

// Role is the backend role of a user.
type Role string

const (
	RoleStudent   Role = "student"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// CanModerate reports whether the role may approve or reject materials and branch requests.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// User is the profile record returned by the backend on login, registration,
// email verification and profile requests.
type User struct {
	ID                  int64   `json:"id"`
	Email               string  `json:"email"`
	Username            string  `json:"username"`
	FirstName           string  `json:"first_name,omitempty"`
	LastName            string  `json:"last_name,omitempty"`
	Role                Role    `json:"role"`
	RoleDisplay         string  `json:"role_display,omitempty"`
	IsEmailVerified     bool    `json:"is_email_verified"`
	CanAccessAdminPanel *bool   `json:"can_access_admin_panel,omitempty"`
	Group               *int64  `json:"group,omitempty"`
	GroupName           *string `json:"group_name,omitempty"`

	// Extra keeps fields the client does not model (created_at, updated_at...)
	// so they survive a persist/rehydrate cycle unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// plainUser has User's fields without its JSON methods.
type plainUser User

var knownUserFields = []string{
	"id", "email", "username", "first_name", "last_name", "role", "role_display",
	"is_email_verified", "can_access_admin_panel", "group", "group_name",
}

// UnmarshalJSON decodes the known fields and collects the rest into Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	var p plainUser
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownUserFields {
		delete(all, k)
	}

	*u = User(p)
	u.Extra = nil
	if len(all) > 0 {
		u.Extra = all
	}
	return nil
}

// MarshalJSON encodes the known fields plus Extra. Known fields win on key collisions.
func (u User) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(plainUser(u))
	if err != nil || len(u.Extra) == 0 {
		return data, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range u.Extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// DisplayName returns "First Last" when either is set, otherwise the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.CanAccessAdminPanel = clonePtr(u.CanAccessAdminPanel)
	c.Group = clonePtr(u.Group)
	c.GroupName = clonePtr(u.GroupName)
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// UserPatch lists profile fields to merge into the current user. Nil fields are left untouched.
type UserPatch struct {
	Email               *string
	Username            *string
	FirstName           *string
	LastName            *string
	Role                *Role
	RoleDisplay         *string
	IsEmailVerified     *bool
	CanAccessAdminPanel *bool
	Group               *int64
	GroupName           *string
	Extra               map[string]json.RawMessage
}

// PatchFrom builds a patch that overwrites every profile field present in u.
// Nullable fields that are nil in u are left untouched. The id is never patched.
func PatchFrom(u User) UserPatch {
	return UserPatch{
		Email:               Ptr(u.Email),
		Username:            Ptr(u.Username),
		FirstName:           Ptr(u.FirstName),
		LastName:            Ptr(u.LastName),
		Role:                Ptr(u.Role),
		RoleDisplay:         Ptr(u.RoleDisplay),
		IsEmailVerified:     Ptr(u.IsEmailVerified),
		CanAccessAdminPanel: clonePtr(u.CanAccessAdminPanel),
		Group:               clonePtr(u.Group),
		GroupName:           clonePtr(u.GroupName),
		Extra:               maps.Clone(u.Extra),
	}
}

func (p UserPatch) apply(u *User) {
	setIf(&u.Email, p.Email)
	setIf(&u.Username, p.Username)
	setIf(&u.FirstName, p.FirstName)
	setIf(&u.LastName, p.LastName)
	setIf(&u.Role, p.Role)
	setIf(&u.RoleDisplay, p.RoleDisplay)
	setIf(&u.IsEmailVerified, p.IsEmailVerified)
	if p.CanAccessAdminPanel != nil {
		u.CanAccessAdminPanel = Ptr(*p.CanAccessAdminPanel)
	}
	if p.Group != nil {
		u.Group = Ptr(*p.Group)
	}
	if p.GroupName != nil {
		u.GroupName = Ptr(*p.GroupName)
	}
	if len(p.Extra) > 0 {
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage, len(p.Extra))
		}
		for k, v := range p.Extra {
			u.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
}

// Ptr returns a pointer to v. Handy for building a UserPatch.
func Ptr[T any](v T) *T {
	return &v
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
