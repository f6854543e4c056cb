package jit

import (
	"github.com/common-fate/jit/pkg/access"
	"github.com/urfave/cli/v2"
)

var S3Command = cli.Command{
	Name:        "s3",
	Usage:       "Manage temporary access to S3 buckets",
	Subcommands: []*cli.Command{&S3GrantCommand, &S3RevokeCommand},
}

var S3GrantCommand = cli.Command{
	Name:      "grant",
	Usage:     "Grant temporary access to an S3 bucket by updating its bucket policy",
	UsageText: "jit [global options] s3 grant [command options]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "Email address or username of the IAM user", Required: true},
		&cli.StringFlag{Name: "bucket", Usage: "Name of the bucket", Required: true},
		&cli.StringFlag{Name: "policy-template", Usage: "Access template to apply (read-only or read-write)", Value: "read-only"},
		&cli.StringFlag{Name: "duration", Usage: "Requested access duration, e.g. PT1H", Value: "PT1H"},
	},
	Action: func(c *cli.Context) error {
		handler, err := newHandler(c)
		if err != nil {
			return err
		}
		return handler.GrantS3(c.Context, access.S3GrantInput{
			User:           c.String("user"),
			Bucket:         c.String("bucket"),
			PolicyTemplate: c.String("policy-template"),
			Duration:       c.String("duration"),
		})
	},
}

var S3RevokeCommand = cli.Command{
	Name:      "revoke",
	Usage:     "Remove a user's temporary access from an S3 bucket",
	UsageText: "jit [global options] s3 revoke [command options]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "Email address or username of the IAM user", Required: true},
		&cli.StringFlag{Name: "bucket", Usage: "Name of the bucket", Required: true},
	},
	Action: func(c *cli.Context) error {
		handler, err := newHandler(c)
		if err != nil {
			return err
		}
		return handler.RevokeS3(c.Context, access.S3RevokeInput{
			User:   c.String("user"),
			Bucket: c.String("bucket"),
		})
	},
}
