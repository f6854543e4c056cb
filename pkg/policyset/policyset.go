// Package policyset looks up Identity Center permission sets by their
// display name.
package policyset

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"
	"github.com/common-fate/clio"
)

// PolicySet is a resolved permission set.
type PolicySet struct {
	ARN         string
	Name        string
	Description string
}

// SSOAdminAPI is the slice of the SSO Admin client used by the
// resolver. It satisfies ssoadmin.ListPermissionSetsAPIClient.
type SSOAdminAPI interface {
	ListPermissionSets(ctx context.Context, params *ssoadmin.ListPermissionSetsInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.ListPermissionSetsOutput, error)
	DescribePermissionSet(ctx context.Context, params *ssoadmin.DescribePermissionSetInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.DescribePermissionSetOutput, error)
}

// Resolver scans the permission set catalog of a single Identity
// Center instance.
type Resolver struct {
	Client      SSOAdminAPI
	InstanceARN string
}

// Resolve returns the first permission set whose name matches exactly,
// in catalog page order, or (nil, nil) if no name matches. The catalog
// API gives no uniqueness guarantee for names; duplicates resolve to
// whichever the API lists first.
func (r *Resolver) Resolve(ctx context.Context, name string) (*PolicySet, error) {
	clio.Infof("Looking up permission set: %s", name)

	p := ssoadmin.NewListPermissionSetsPaginator(r.Client, &ssoadmin.ListPermissionSetsInput{
		InstanceArn: aws.String(r.InstanceARN),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, arn := range page.PermissionSets {
			describe, err := r.Client.DescribePermissionSet(ctx, &ssoadmin.DescribePermissionSetInput{
				InstanceArn:      aws.String(r.InstanceARN),
				PermissionSetArn: aws.String(arn),
			})
			if err != nil {
				return nil, err
			}
			ps := describe.PermissionSet
			if ps == nil {
				continue
			}
			if aws.ToString(ps.Name) == name {
				clio.Successf("Found permission set: %s", name)
				return &PolicySet{
					ARN:         arn,
					Name:        aws.ToString(ps.Name),
					Description: aws.ToString(ps.Description),
				}, nil
			}
		}
	}
	clio.Warnf("No permission set found with name: %s", name)
	return nil, nil
}
