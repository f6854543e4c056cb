package access

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"
	ssotypes "github.com/aws/aws-sdk-go-v2/service/ssoadmin/types"
	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/duration"
	"github.com/common-fate/jit/pkg/slackmsg"
	"github.com/common-fate/jit/pkg/webhook"
	"github.com/pkg/errors"
)

// GrantInput is a request for temporary Identity Center access.
type GrantInput struct {
	// User is the requester's email address.
	User string
	// PermissionSet is the display name of the permission set.
	PermissionSet string
	// Duration is the requested access lifetime, encoded like "PT2H".
	// It is clamped to the configured ceiling, never rejected.
	Duration string
}

// Grant creates an account assignment for the requester. The
// assignment itself is the single authoritative mutation: if it fails
// the whole operation fails, and if it succeeds a notification or
// scheduling failure does not undo it.
func (h *Handler) Grant(ctx context.Context, in GrantInput) error {
	clio.Infof("Granting access for %s with permission set %s...", in.User, in.PermissionSet)

	validated := duration.Clamp(in.Duration, h.cfg.MaxDuration)
	seconds, err := duration.Parse(validated)
	if err != nil {
		return errors.Wrap(err, "parsing validated duration")
	}

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

	alias := h.accountAlias(ctx)

	clio.Info("Creating account assignment...")
	_, err = h.deps.SSOAdmin.CreateAccountAssignment(ctx, &ssoadmin.CreateAccountAssignmentInput{
		InstanceArn:      aws.String(h.instanceARN),
		TargetId:         aws.String(h.cfg.AccountID),
		TargetType:       ssotypes.TargetTypeAwsAccount,
		PermissionSetArn: aws.String(ps.ARN),
		PrincipalType:    ssotypes.PrincipalTypeUser,
		PrincipalId:      aws.String(user.PrincipalID),
	})
	if err != nil {
		return errors.Wrap(err, "creating account assignment")
	}

	clio.Success("Access granted successfully!")
	clio.Log(fmt.Sprintf("   ├─ Account: %s (%s)", alias, h.cfg.AccountID))
	clio.Log(fmt.Sprintf("   ├─ User: %s", in.User))
	clio.Log(fmt.Sprintf("   ├─ Permission Set: %s", ps.Name))
	clio.Log(fmt.Sprintf("   └─ Duration: %s", duration.Format(seconds)))

	facts := slackmsg.AccessFacts{
		AccountID:       h.cfg.AccountID,
		AccountAlias:    alias,
		PermissionSet:   ps.Name,
		Description:     ps.Description,
		UserEmail:       in.User,
		DurationSeconds: seconds,
	}
	if err := h.deps.Notifier.SendAccessGranted(ctx, facts); err != nil {
		clio.Warnf("Failed to send access granted notification: %s", err.Error())
	}

	h.scheduleRevocation(webhook.RevocationPayload{
		UserEmail:       in.User,
		AccessType:      "sso",
		DurationSeconds: seconds,
		AccountID:       h.cfg.AccountID,
		PermissionSet:   ps.Name,
		PolicyDetails: map[string]interface{}{
			"name":    ps.Name,
			"type":    "sso",
			"details": ps.Description,
		},
	}, &facts)

	return nil
}
