package domain

// UserID identifies a chat participant. Telegram user IDs are stable int64s.
type UserID = int64

// AccessList answers authorization questions for a fixed set of users.
// It is built once at startup and never mutated afterwards.
type AccessList struct {
	whitelisted map[UserID]struct{}
	admins      map[UserID]struct{}
}

// NewAccessList builds an AccessList from the configured ID sets.
func NewAccessList(whitelisted, admins []int64) *AccessList {
	a := &AccessList{
		whitelisted: make(map[UserID]struct{}, len(whitelisted)),
		admins:      make(map[UserID]struct{}, len(admins)),
	}
	for _, id := range whitelisted {
		a.whitelisted[id] = struct{}{}
	}
	for _, id := range admins {
		a.admins[id] = struct{}{}
	}
	return a
}

// IsAuthorized reports whether id may use ordinary commands.
// Admins are implicitly authorized.
func (a *AccessList) IsAuthorized(id UserID) bool {
	if _, ok := a.whitelisted[id]; ok {
		return true
	}
	return a.IsAdmin(id)
}

// IsAdmin reports whether id may impersonate other users.
func (a *AccessList) IsAdmin(id UserID) bool {
	_, ok := a.admins[id]
	return ok
}
