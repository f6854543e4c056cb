package identity

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/common-fate/clio"
)

// IAMAPI is the slice of the IAM client used by the IAM backend.
// It satisfies iam.ListUsersAPIClient so the SDK paginator can drive it.
type IAMAPI interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListUserTags(ctx context.Context, params *iam.ListUserTagsInput, optFns ...func(*iam.Options)) (*iam.ListUserTagsOutput, error)
}

// IAMBackend matches IAM users either by username or by an "email" tag
// on the user. IAM has no server-side filter for either, so the user
// list is scanned page by page.
type IAMBackend struct {
	Client IAMAPI
}

func (b *IAMBackend) Name() string { return "IAM" }

func (b *IAMBackend) Lookup(ctx context.Context, identifier string) (*Identity, error) {
	p := iam.NewListUsersPaginator(b.Client, &iam.ListUsersInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, user := range page.Users {
			username := aws.ToString(user.UserName)
			if strings.EqualFold(username, identifier) {
				return &Identity{
					PrincipalID: aws.ToString(user.UserId),
					ARN:         aws.ToString(user.Arn),
					Username:    username,
					Source:      "iam",
				}, nil
			}

			tagged, err := b.matchesEmailTag(ctx, username, identifier)
			if err != nil {
				// a user we can't read tags for shouldn't sink
				// the whole scan
				clio.Debugw("failed to list user tags", "user", username, "error", err.Error())
				continue
			}
			if tagged {
				return &Identity{
					PrincipalID: aws.ToString(user.UserId),
					ARN:         aws.ToString(user.Arn),
					Username:    username,
					Source:      "iam",
				}, nil
			}
		}
	}
	return nil, nil
}

func (b *IAMBackend) matchesEmailTag(ctx context.Context, username, identifier string) (bool, error) {
	out, err := b.Client.ListUserTags(ctx, &iam.ListUserTagsInput{UserName: aws.String(username)})
	if err != nil {
		return false, err
	}
	for _, tag := range out.Tags {
		if strings.EqualFold(aws.ToString(tag.Key), "email") && strings.EqualFold(aws.ToString(tag.Value), identifier) {
			return true, nil
		}
	}
	return false, nil
}
