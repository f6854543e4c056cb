// Package slackmsg builds the Slack Block Kit payloads sent when JIT
// access is granted, revoked or expires. Builders are pure: given the
// same access facts they always produce the same blocks.
package slackmsg

import (
	"fmt"

	"github.com/common-fate/jit/pkg/duration"
	"github.com/slack-go/slack"
)

// NoDescription is displayed when a permission set has no description.
const NoDescription = "No description available"

// AccessFacts describes an Identity Center grant for notification
// rendering. AccountAlias and Description are optional.
type AccessFacts struct {
	AccountID     string
	AccountAlias  string
	PermissionSet string
	Description   string
	UserEmail     string

	// DurationSeconds is used when non-zero, otherwise Duration is
	// parsed as an encoded duration ("PT2H"). An unparseable encoded
	// duration renders as zero seconds rather than failing.
	DurationSeconds int
	Duration        string
}

// S3AccessFacts describes a bucket-policy grant for notification
// rendering.
type S3AccessFacts struct {
	AccountID      string
	UserEmail      string
	BucketName     string
	PolicyTemplate string

	DurationSeconds int
	Duration        string
}

func (f AccessFacts) accountName() string {
	if f.AccountAlias != "" {
		return f.AccountAlias
	}
	return f.AccountID
}

func (f AccessFacts) durationDisplay() string {
	return displayDuration(f.DurationSeconds, f.Duration)
}

func (f S3AccessFacts) durationDisplay() string {
	return displayDuration(f.DurationSeconds, f.Duration)
}

func displayDuration(seconds int, encoded string) string {
	if seconds == 0 && encoded != "" {
		parsed, err := duration.Parse(encoded)
		if err == nil {
			seconds = parsed
		}
	}
	return duration.Format(seconds)
}

func header(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func section(markdown string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, markdown, false, false), nil, nil)
}

func fieldPair(a, b string) *slack.SectionBlock {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, a, false, false),
		slack.NewTextBlockObject(slack.MarkdownType, b, false, false),
	}
	return slack.NewSectionBlock(nil, fields, nil)
}

func contextLine(markdown string) *slack.ContextBlock {
	return slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, markdown, false, false))
}

// AccessGranted builds the notification sent to a user when an
// Identity Center assignment has been created for them, including the
// console, CLI and SDK access instructions.
func AccessGranted(f AccessFacts) slack.Blocks {
	durationDisplay := f.durationDisplay()
	description := f.Description
	if description == "" {
		description = NoDescription
	}

	blocks := []slack.Block{
		header("🎉 AWS Access Granted! 🎉"),
		section(fmt.Sprintf("You've been granted access to AWS account *%s* (%s) with permission set *%s*", f.accountName(), f.AccountID, f.PermissionSet)),
		fieldPair(
			fmt.Sprintf("*Duration:*\n%s", durationDisplay),
			fmt.Sprintf("*User:*\n%s", f.UserEmail),
		),
		section(fmt.Sprintf("*Permission Set Details:*\n%s", description)),
		slack.NewDividerBlock(),
		section("*How to Access AWS:*"),
		section(fmt.Sprintf("*🌐 Web Console Access*\n1. Visit: <https://signin.aws.amazon.com/switchrole?account=%s|AWS Console>\n2. Sign in with your SSO credentials\n3. Select account *%s* (%s)\n4. You should now have access with the *%s* permission set", f.AccountID, f.accountName(), f.AccountID, f.PermissionSet)),
		section(fmt.Sprintf("*💻 AWS CLI Access*\n1. Configure AWS CLI SSO:\n```aws configure sso\nAccount ID: %s\nRole name: %s```\n2. Login and get credentials:\n```aws sso login```\n3. Test your access:\n```aws sts get-caller-identity```", f.AccountID, f.PermissionSet)),
		contextLine(fmt.Sprintf("⏰ Access will expire in %s", durationDisplay)),
	}
	return slack.Blocks{BlockSet: blocks}
}

// AccessExpired builds the notification sent when a grant's duration
// has elapsed and the revocation signal fires.
func AccessExpired(f AccessFacts) slack.Blocks {
	blocks := []slack.Block{
		header("⏰ AWS Access Expired"),
		section(fmt.Sprintf("Access to AWS account *%s* (%s) with permission set *%s* has expired after %s.", f.accountName(), f.AccountID, f.PermissionSet, f.durationDisplay())),
		fieldPair(
			fmt.Sprintf("*User:*\n%s", f.UserEmail),
			fmt.Sprintf("*Permission Set:*\n%s", f.PermissionSet),
		),
		contextLine("Request access again if you still need it."),
	}
	return slack.Blocks{BlockSet: blocks}
}

// AccessRevoked builds the notification sent when an assignment is
// removed ahead of its natural expiry.
func AccessRevoked(f AccessFacts) slack.Blocks {
	blocks := []slack.Block{
		header("🔒 AWS Access Revoked"),
		section(fmt.Sprintf("Access to AWS account *%s* (%s) with permission set *%s* has been revoked.", f.accountName(), f.AccountID, f.PermissionSet)),
		fieldPair(
			fmt.Sprintf("*User:*\n%s", f.UserEmail),
			fmt.Sprintf("*Permission Set:*\n%s", f.PermissionSet),
		),
		contextLine("If you believe this is a mistake, contact your administrator."),
	}
	return slack.Blocks{BlockSet: blocks}
}

// S3AccessGranted builds the notification sent when a user has been
// added to a bucket's access policy.
func S3AccessGranted(f S3AccessFacts) slack.Blocks {
	durationDisplay := f.durationDisplay()
	blocks := []slack.Block{
		header("🪣 S3 Access Granted! 🪣"),
		section(fmt.Sprintf("You've been granted access to the S3 bucket *%s* in account %s with the *%s* policy template", f.BucketName, f.AccountID, f.PolicyTemplate)),
		fieldPair(
			fmt.Sprintf("*Duration:*\n%s", durationDisplay),
			fmt.Sprintf("*User:*\n%s", f.UserEmail),
		),
		slack.NewDividerBlock(),
		section(fmt.Sprintf("*💻 AWS CLI Access*\n```aws s3 ls s3://%s\naws s3 cp s3://%s/<key> .```", f.BucketName, f.BucketName)),
		contextLine(fmt.Sprintf("⏰ Access will expire in %s", durationDisplay)),
	}
	return slack.Blocks{BlockSet: blocks}
}

// S3AccessRevoked builds the notification sent when a user's statement
// is removed from a bucket's access policy.
func S3AccessRevoked(f S3AccessFacts) slack.Blocks {
	blocks := []slack.Block{
		header("🔒 S3 Access Revoked"),
		section(fmt.Sprintf("Access to the S3 bucket *%s* in account %s has been revoked.", f.BucketName, f.AccountID)),
		fieldPair(
			fmt.Sprintf("*User:*\n%s", f.UserEmail),
			fmt.Sprintf("*Bucket:*\n%s", f.BucketName),
		),
		contextLine("If you believe this is a mistake, contact your administrator."),
	}
	return slack.Blocks{BlockSet: blocks}
}
