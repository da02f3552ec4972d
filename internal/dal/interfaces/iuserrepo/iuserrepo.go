package iuserrepo

import (
	"context"

	"github.com/gmarket/export-svc/internal/service/models/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IUserRepository defines read access to the users collection, used to
// resolve display fields on export responses.
type IUserRepository interface {
	// FindByIDs batch-fetches users by id.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]user.User, error)
}
