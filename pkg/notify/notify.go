// Package notify delivers access notifications to a Slack incoming
// webhook. Delivery failures are the caller's to log; nothing here
// retries.
package notify

import (
	"context"

	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/slackmsg"
	"github.com/slack-go/slack"
)

// Slack posts Block Kit payloads to an incoming webhook. A zero value
// (no URL) is valid and silently skips delivery so callers don't need
// to special-case an unconfigured channel.
type Slack struct {
	WebhookURL string
}

func (s *Slack) post(ctx context.Context, blocks slack.Blocks) error {
	if s == nil || s.WebhookURL == "" {
		clio.Debug("no slack webhook configured, skipping notification")
		return nil
	}
	return slack.PostWebhookContext(ctx, s.WebhookURL, &slack.WebhookMessage{Blocks: &blocks})
}

func (s *Slack) SendAccessGranted(ctx context.Context, facts slackmsg.AccessFacts) error {
	return s.post(ctx, slackmsg.AccessGranted(facts))
}

func (s *Slack) SendAccessRevoked(ctx context.Context, facts slackmsg.AccessFacts) error {
	return s.post(ctx, slackmsg.AccessRevoked(facts))
}

func (s *Slack) SendAccessExpired(ctx context.Context, facts slackmsg.AccessFacts) error {
	return s.post(ctx, slackmsg.AccessExpired(facts))
}

func (s *Slack) SendS3AccessGranted(ctx context.Context, facts slackmsg.S3AccessFacts) error {
	return s.post(ctx, slackmsg.S3AccessGranted(facts))
}

func (s *Slack) SendS3AccessRevoked(ctx context.Context, facts slackmsg.S3AccessFacts) error {
	return s.post(ctx, slackmsg.S3AccessRevoked(facts))
}
