// Package access coordinates the JIT access lifecycle: validating a
// requested duration against the configured ceiling, resolving the
// requester to a principal, creating the grant in IAM Identity Center
// (or a bucket policy), notifying the requester, and scheduling the
// best-effort revocation signal.
package access

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/identitystore"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/config"
	"github.com/common-fate/jit/pkg/identity"
	"github.com/common-fate/jit/pkg/notify"
	"github.com/common-fate/jit/pkg/policyset"
	"github.com/common-fate/jit/pkg/scheduler"
	"github.com/common-fate/jit/pkg/slackmsg"
	"github.com/common-fate/jit/pkg/webhook"
	"github.com/pkg/errors"
)

// SSOAdminClient is the slice of the SSO Admin API the handler calls.
type SSOAdminClient interface {
	policyset.SSOAdminAPI
	ListInstances(ctx context.Context, params *ssoadmin.ListInstancesInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.ListInstancesOutput, error)
	CreateAccountAssignment(ctx context.Context, params *ssoadmin.CreateAccountAssignmentInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.CreateAccountAssignmentOutput, error)
	DeleteAccountAssignment(ctx context.Context, params *ssoadmin.DeleteAccountAssignmentInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.DeleteAccountAssignmentOutput, error)
}

// IAMClient extends the identity backend's view of IAM with the
// account alias lookup used for display.
type IAMClient interface {
	identity.IAMAPI
	ListAccountAliases(ctx context.Context, params *iam.ListAccountAliasesInput, optFns ...func(*iam.Options)) (*iam.ListAccountAliasesOutput, error)
}

// S3Client is the slice of the S3 API used by the bucket access flow.
type S3Client interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetBucketPolicy(ctx context.Context, params *s3.GetBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.GetBucketPolicyOutput, error)
	PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	DeleteBucketPolicy(ctx context.Context, params *s3.DeleteBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketPolicyOutput, error)
}

// Notifier delivers access notifications. Failures never unwind a
// grant; the handler logs them and moves on.
type Notifier interface {
	SendAccessGranted(ctx context.Context, facts slackmsg.AccessFacts) error
	SendAccessRevoked(ctx context.Context, facts slackmsg.AccessFacts) error
	SendAccessExpired(ctx context.Context, facts slackmsg.AccessFacts) error
	SendS3AccessGranted(ctx context.Context, facts slackmsg.S3AccessFacts) error
	SendS3AccessRevoked(ctx context.Context, facts slackmsg.S3AccessFacts) error
}

// RevocationSender delivers the revocation signal.
type RevocationSender interface {
	SendRevocation(ctx context.Context, payload webhook.RevocationPayload) error
}

// Delayer runs a function after a delay, fire and forget.
type Delayer interface {
	After(delay time.Duration, fn func())
}

// Deps are the external collaborators of a Handler. Revoker may be nil
// when no revocation webhook is configured; in that case no revocation
// signal is ever scheduled.
type Deps struct {
	SSOAdmin      SSOAdminClient
	IdentityStore identity.IdentityStoreAPI
	IAM           IAMClient
	S3            S3Client
	Notifier      Notifier
	Revoker       RevocationSender
	Delayer       Delayer
}

// Handler is the access lifecycle coordinator. Grant requests are
// independent of each other; the only concurrency is the scheduled
// revocation signal, which captures its parameters at schedule time
// and shares no mutable state with the main flow.
type Handler struct {
	cfg  config.Config
	deps Deps

	instanceARN     string
	identityStoreID string

	users    *identity.Resolver
	policies *policyset.Resolver
}

// New builds a Handler with real AWS clients and the configured
// notification and webhook dispatchers.
func New(ctx context.Context, cfg config.Config) (*Handler, error) {
	clio.Info("Initializing AWS access handler...")

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS configuration")
	}

	if cfg.AccountID == "" {
		caller, err := sts.NewFromConfig(awsCfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return nil, errors.Wrap(err, "no account ID configured and caller identity lookup failed")
		}
		cfg.AccountID = aws.ToString(caller.Account)
		clio.Debugw("discovered account from caller identity", "account", cfg.AccountID)
	}

	deps := Deps{
		SSOAdmin:      ssoadmin.NewFromConfig(awsCfg),
		IdentityStore: identitystore.NewFromConfig(awsCfg),
		IAM:           iam.NewFromConfig(awsCfg),
		S3:            s3.NewFromConfig(awsCfg),
		Notifier:      &notify.Slack{WebhookURL: cfg.SlackWebhookURL},
		Delayer:       scheduler.New(),
	}
	if cfg.RevocationWebhookURL != "" {
		deps.Revoker = webhook.NewDispatcher(cfg.RevocationWebhookURL)
	}
	return NewFromDeps(ctx, cfg, deps)
}

// NewFromDeps builds a Handler from explicit collaborators and
// discovers the Identity Center instance. Exactly one instance must be
// visible; zero or several is a fatal misconfiguration.
func NewFromDeps(ctx context.Context, cfg config.Config, deps Deps) (*Handler, error) {
	clio.Info("Fetching Identity Center instance details...")
	out, err := deps.SSOAdmin.ListInstances(ctx, &ssoadmin.ListInstancesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "listing identity center instances")
	}
	switch len(out.Instances) {
	case 0:
		return nil, ErrNoInstance
	case 1:
	default:
		return nil, ErrAmbiguousInstance
	}
	instance := out.Instances[0]

	h := &Handler{
		cfg:             cfg,
		deps:            deps,
		instanceARN:     aws.ToString(instance.InstanceArn),
		identityStoreID: aws.ToString(instance.IdentityStoreId),
	}
	h.users = identity.NewResolver(
		&identity.IdentityCenterBackend{Client: deps.IdentityStore, IdentityStoreID: h.identityStoreID},
		&identity.IAMBackend{Client: deps.IAM},
	)
	h.policies = &policyset.Resolver{Client: deps.SSOAdmin, InstanceARN: h.instanceARN}

	clio.Success("AWS access handler initialized")
	return h, nil
}

// accountAlias returns a display name for the account, falling back to
// the raw account ID when the alias lookup fails or no alias is set.
func (h *Handler) accountAlias(ctx context.Context) string {
	out, err := h.deps.IAM.ListAccountAliases(ctx, &iam.ListAccountAliasesInput{})
	if err != nil {
		clio.Debugw("account alias lookup failed", "error", err.Error())
		return h.cfg.AccountID
	}
	if len(out.AccountAliases) == 0 {
		return h.cfg.AccountID
	}
	return out.AccountAliases[0]
}
