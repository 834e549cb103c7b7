package model

import "time"

// Snapshot is the complete persisted state: account owners, their employees,
// per-owner channel settings and the last scheduler check time. It is always
// loaded and saved as a whole; callers read-modify-write the entire document
// so that no partial patch can clobber concurrent out-of-band edits.
type Snapshot struct {
	Users     []*User                     `json:"users"`
	Employees []*Employee                 `json:"employees"`
	Settings  map[string]*AccountSettings `json:"settings"`
	LastCheck time.Time                   `json:"last_check"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:     []*User{},
		Employees: []*Employee{},
		Settings:  map[string]*AccountSettings{},
	}
}

// Normalize backfills nil collections after decoding a hand-edited or legacy
// document.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []*User{}
	}
	if s.Employees == nil {
		s.Employees = []*Employee{}
	}
	if s.Settings == nil {
		s.Settings = map[string]*AccountSettings{}
	}
}

// SettingsFor returns the channel settings for an owner, or nil when the
// owner never saved any. Channels treat nil as "nothing configured".
func (s *Snapshot) SettingsFor(ownerEmail string) *AccountSettings {
	return s.Settings[ownerEmail]
}

func (s *Snapshot) UserByEmail(email string) *User {
	for _, u := range s.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// EmployeesOf returns the employees registered by one owner.
func (s *Snapshot) EmployeesOf(ownerEmail string) []*Employee {
	out := []*Employee{}
	for _, e := range s.Employees {
		if e.OwnerEmail == ownerEmail {
			out = append(out, e)
		}
	}
	return out
}
