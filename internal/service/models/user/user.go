package user

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the users collection. This service only
// reads users, to resolve display fields on export responses.
type User struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email,omitempty"`
	IsAdmin  bool               `json:"-"`
}

// Identity is the authenticated caller, produced by the auth middleware and
// passed explicitly into every service operation.
type Identity struct {
	UserID   primitive.ObjectID
	Username string
	Email    string
	IsAdmin  bool
}
