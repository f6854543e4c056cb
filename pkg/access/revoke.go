package access

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"
	ssotypes "github.com/aws/aws-sdk-go-v2/service/ssoadmin/types"
	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/slackmsg"
	"github.com/pkg/errors"
)

// RevokeInput identifies the assignment to remove. Revocation is not
// time bounded, so no duration is involved.
type RevokeInput struct {
	User          string
	PermissionSet string
}

// Revoke deletes the requester's account assignment and notifies them.
func (h *Handler) Revoke(ctx context.Context, in RevokeInput) error {
	clio.Infof("Revoking access for %s with permission set %s...", in.User, in.PermissionSet)

	user, err := h.users.Resolve(ctx, in.User)
	if err != nil {
		return errors.Wrap(err, "resolving user")
	}
	if user == nil {
		return &NotFoundError{Resource: "user", Name: in.User}
	}

	ps, err := h.policies.Resolve(ctx, in.PermissionSet)
	if err != nil {
		return errors.Wrap(err, "resolving permission set")
	}
	if ps == nil {
		return &NotFoundError{Resource: "permission set", Name: in.PermissionSet}
	}

	clio.Info("Deleting account assignment...")
	_, err = h.deps.SSOAdmin.DeleteAccountAssignment(ctx, &ssoadmin.DeleteAccountAssignmentInput{
		InstanceArn:      aws.String(h.instanceARN),
		TargetId:         aws.String(h.cfg.AccountID),
		TargetType:       ssotypes.TargetTypeAwsAccount,
		PermissionSetArn: aws.String(ps.ARN),
		PrincipalType:    ssotypes.PrincipalTypeUser,
		PrincipalId:      aws.String(user.PrincipalID),
	})
	if err != nil {
		return errors.Wrap(err, "deleting account assignment")
	}

	clio.Success("Access revoked successfully!")
	clio.Log(fmt.Sprintf("   ├─ User: %s", in.User))
	clio.Log(fmt.Sprintf("   └─ Permission Set: %s", ps.Name))

	err = h.deps.Notifier.SendAccessRevoked(ctx, slackmsg.AccessFacts{
		AccountID:     h.cfg.AccountID,
		AccountAlias:  h.accountAlias(ctx),
		PermissionSet: ps.Name,
		Description:   ps.Description,
		UserEmail:     in.User,
	})
	if err != nil {
		clio.Warnf("Failed to send access revoked notification: %s", err.Error())
	}
	return nil
}
