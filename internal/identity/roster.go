package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RosterFile is the name of the user roster inside an export folder.
const RosterFile = "users.json"

// UserProfile holds the profile fields of a roster entry.
type UserProfile struct {
	RealName    string `json:"real_name"`
	DisplayName string `json:"display_name"`
}

// User is one roster entry.
type User struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Deleted bool        `json:"deleted"`
	IsBot   bool        `json:"is_bot"`
	Profile UserProfile `json:"profile"`
}

// Roster is the set of known users of an export, keyed by id.
type Roster struct {
	users []User
	byID  map[string]int
}

// NewRoster indexes users by id. Later duplicates win.
func NewRoster(users []User) *Roster {
	r := &Roster{users: users, byID: make(map[string]int, len(users))}
	for i, u := range users {
		if u.ID != "" {
			r.byID[u.ID] = i
		}
	}
	return r
}

// LoadRoster reads users.json from folder. The returned roster is never nil:
// a missing file yields an empty roster and no error, a malformed file an
// empty roster and the decode error so callers can log it.
func LoadRoster(folder string) (*Roster, error) {
	data, err := os.ReadFile(filepath.Join(folder, RosterFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewRoster(nil), nil
		}
		return NewRoster(nil), fmt.Errorf("read roster: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return NewRoster(nil), fmt.Errorf("decode roster: %w", err)
	}

	users := make([]User, 0, len(items))
	for _, item := range items {
		var u User
		if err := json.Unmarshal(item, &u); err != nil {
			continue
		}
		users = append(users, u)
	}
	return NewRoster(users), nil
}

// Users returns roster entries in file order.
func (r *Roster) Users() []User {
	if r == nil {
		return nil
	}
	return r.users
}

// Len returns the number of users.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.users)
}

// Lookup returns the user with the given id.
func (r *Roster) Lookup(id string) (User, bool) {
	if r == nil {
		return User{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return User{}, false
	}
	return r.users[i], true
}

// RealName returns profile.real_name of a user when it is set.
func (r *Roster) RealName(id string) (string, bool) {
	u, ok := r.Lookup(id)
	if !ok || u.Profile.RealName == "" {
		return "", false
	}
	return u.Profile.RealName, true
}
