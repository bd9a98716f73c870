// internal/domain/identity/identity.go
package identity

// GuestKey is the storage key under which the anonymous partition lives
const GuestKey = "guest"

// Identity represents the owner of a cart partition: either the
// anonymous guest sentinel or a user identified by the string form of
// the backend's numeric user id.
type Identity struct {
	userID string
}

// Guest returns the anonymous guest identity
func Guest() Identity {
	return Identity{}
}

// User returns the identity for the given backend user id
func User(id string) Identity {
	return Identity{userID: id}
}

// IsGuest reports whether this is the anonymous guest identity
func (i Identity) IsGuest() bool {
	return i.userID == ""
}

// UserID returns the backend user id; empty for the guest identity
func (i Identity) UserID() string {
	return i.userID
}

// Key returns the partition map key for this identity
func (i Identity) Key() string {
	if i.userID == "" {
		return GuestKey
	}
	return i.userID
}

// FromKey reconstructs an identity from its partition map key
func FromKey(key string) Identity {
	if key == "" || key == GuestKey {
		return Guest()
	}
	return User(key)
}

// String implements fmt.Stringer for log fields
func (i Identity) String() string {
	if i.IsGuest() {
		return "guest"
	}
	return "user:" + i.userID
}
