package cart

import (
	"github.com/google/uuid"
)

type ownerKind uint8

const (
	ownerGuest ownerKind = iota + 1
	ownerUser
)

// Owner identifies whose cart an operation targets: a guest, keyed by the
// token of its client-held store, or an authenticated user.
type Owner struct {
	kind   ownerKind
	token  string
	userID uuid.UUID
}

// GuestOwner returns the owner of a guest cart
func GuestOwner(token string) Owner {
	return Owner{kind: ownerGuest, token: token}
}

// UserOwner returns the owner of an authenticated user's cart
func UserOwner(userID uuid.UUID) Owner {
	return Owner{kind: ownerUser, userID: userID}
}

// IsGuest reports whether the cart lives in the guest store
func (o Owner) IsGuest() bool { return o.kind == ownerGuest }

// IsUser reports whether the cart lives in the database
func (o Owner) IsUser() bool { return o.kind == ownerUser }

// IsZero reports whether the owner was never set
func (o Owner) IsZero() bool { return o.kind == 0 }

// Token returns the guest token, empty for users
func (o Owner) Token() string { return o.token }

// UserID returns the user id, uuid.Nil for guests
func (o Owner) UserID() uuid.UUID { return o.userID }

// String returns a stable identifier usable as a cache key
func (o Owner) String() string {
	switch o.kind {
	case ownerGuest:
		return "guest:" + o.token
	case ownerUser:
		return "user:" + o.userID.String()
	default:
		return "anonymous"
	}
}
