package identity

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/identitystore"
	"github.com/aws/aws-sdk-go-v2/service/identitystore/types"
)

// IdentityStoreAPI is the slice of the Identity Store client used by
// the Identity Center backend.
type IdentityStoreAPI interface {
	ListUsers(ctx context.Context, params *identitystore.ListUsersInput, optFns ...func(*identitystore.Options)) (*identitystore.ListUsersOutput, error)
}

// IdentityCenterBackend matches users by their Identity Center
// username attribute.
type IdentityCenterBackend struct {
	Client          IdentityStoreAPI
	IdentityStoreID string
}

func (b *IdentityCenterBackend) Name() string { return "Identity Center" }

func (b *IdentityCenterBackend) Lookup(ctx context.Context, identifier string) (*Identity, error) {
	out, err := b.Client.ListUsers(ctx, &identitystore.ListUsersInput{
		IdentityStoreId: aws.String(b.IdentityStoreID),
		Filters: []types.Filter{
			{
				AttributePath:  aws.String("UserName"),
				AttributeValue: aws.String(identifier),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Users) == 0 {
		return nil, nil
	}
	user := out.Users[0]
	return &Identity{
		PrincipalID: aws.ToString(user.UserId),
		Username:    aws.ToString(user.UserName),
		Source:      "identity-center",
	}, nil
}
