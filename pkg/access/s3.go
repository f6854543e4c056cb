package access

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/duration"
	"github.com/common-fate/jit/pkg/slackmsg"
	"github.com/common-fate/jit/pkg/webhook"
	"github.com/pkg/errors"
)

// S3GrantInput is a request for temporary bucket access via the
// bucket's access policy.
type S3GrantInput struct {
	User           string
	Bucket         string
	PolicyTemplate string
	Duration       string
}

// S3RevokeInput identifies the bucket grant to remove.
type S3RevokeInput struct {
	User   string
	Bucket string
}

// GrantS3 adds the requester's principal to the bucket's access
// policy. The bucket must exist; the requester must resolve to an IAM
// user, since Identity Center users have no principal ARN a bucket
// policy can name.
func (h *Handler) GrantS3(ctx context.Context, in S3GrantInput) error {
	clio.Infof("Granting S3 access for %s to bucket %s...", in.User, in.Bucket)

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
	if user.ARN == "" {
		return errors.Errorf("user %s has no IAM principal ARN: bucket policies can only name IAM users", in.User)
	}

	if err := h.checkBucketExists(ctx, in.Bucket); err != nil {
		return err
	}

	template := in.PolicyTemplate
	if template == "" {
		template = "read-only"
	}

	current, err := h.getBucketPolicy(ctx, in.Bucket)
	if err != nil {
		return err
	}
	updated, err := addBucketPolicyStatement(current, user.ARN, in.Bucket, template)
	if err != nil {
		return err
	}
	_, err = h.deps.S3.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(in.Bucket),
		Policy: aws.String(updated),
	})
	if err != nil {
		return errors.Wrap(err, "updating bucket policy")
	}

	clio.Success("S3 access granted successfully!")
	clio.Log(fmt.Sprintf("   ├─ User: %s", in.User))
	clio.Log(fmt.Sprintf("   ├─ Bucket: %s", in.Bucket))
	clio.Log(fmt.Sprintf("   └─ Duration: %s", duration.Format(seconds)))

	h.scheduleRevocation(webhook.RevocationPayload{
		UserEmail:       in.User,
		AccessType:      "s3",
		DurationSeconds: seconds,
		AccountID:       h.cfg.AccountID,
		Buckets:         []string{in.Bucket},
		PolicyDetails: map[string]interface{}{
			"name":     in.Bucket,
			"type":     "s3",
			"template": template,
		},
	}, nil)

	err = h.deps.Notifier.SendS3AccessGranted(ctx, slackmsg.S3AccessFacts{
		AccountID:       h.cfg.AccountID,
		UserEmail:       in.User,
		BucketName:      in.Bucket,
		PolicyTemplate:  template,
		DurationSeconds: seconds,
	})
	if err != nil {
		clio.Warnf("Failed to send S3 access granted notification: %s", err.Error())
	}
	return nil
}

// RevokeS3 removes the requester's principal from the bucket's access
// policy.
func (h *Handler) RevokeS3(ctx context.Context, in S3RevokeInput) error {
	clio.Infof("Revoking S3 access for %s on bucket %s...", in.User, in.Bucket)

	user, err := h.users.Resolve(ctx, in.User)
	if err != nil {
		return errors.Wrap(err, "resolving user")
	}
	if user == nil {
		return &NotFoundError{Resource: "user", Name: in.User}
	}
	if user.ARN == "" {
		return errors.Errorf("user %s has no IAM principal ARN: bucket policies can only name IAM users", in.User)
	}

	if err := h.checkBucketExists(ctx, in.Bucket); err != nil {
		return err
	}

	current, err := h.getBucketPolicy(ctx, in.Bucket)
	if err != nil {
		return err
	}
	if current == "" {
		clio.Warnf("Bucket %s has no policy, nothing to revoke", in.Bucket)
	} else {
		updated, remaining, err := removeBucketPolicyStatements(current, user.ARN)
		if err != nil {
			return err
		}
		if remaining {
			_, err = h.deps.S3.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
				Bucket: aws.String(in.Bucket),
				Policy: aws.String(updated),
			})
		} else {
			_, err = h.deps.S3.DeleteBucketPolicy(ctx, &s3.DeleteBucketPolicyInput{
				Bucket: aws.String(in.Bucket),
			})
		}
		if err != nil {
			return errors.Wrap(err, "updating bucket policy")
		}
	}

	clio.Success("S3 access revoked successfully!")
	clio.Log(fmt.Sprintf("   ├─ User: %s", in.User))
	clio.Log(fmt.Sprintf("   └─ Bucket: %s", in.Bucket))

	err = h.deps.Notifier.SendS3AccessRevoked(ctx, slackmsg.S3AccessFacts{
		AccountID:  h.cfg.AccountID,
		UserEmail:  in.User,
		BucketName: in.Bucket,
	})
	if err != nil {
		clio.Warnf("Failed to send S3 access revoked notification: %s", err.Error())
	}
	return nil
}

func (h *Handler) checkBucketExists(ctx context.Context, bucket string) error {
	_, err := h.deps.S3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	var notFound *s3types.NotFound
	if stderrors.As(err, &notFound) {
		return &NotFoundError{Resource: "bucket", Name: bucket}
	}
	return errors.Wrap(err, "checking bucket")
}

// getBucketPolicy returns the current policy document, or "" when the
// bucket has none.
func (h *Handler) getBucketPolicy(ctx context.Context, bucket string) (string, error) {
	out, err := h.deps.S3.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(bucket)})
	if err != nil {
		var apiErr smithy.APIError
		if stderrors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucketPolicy" {
			return "", nil
		}
		return "", errors.Wrap(err, "reading bucket policy")
	}
	return aws.ToString(out.Policy), nil
}
