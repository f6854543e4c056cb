package jit

import (
	"github.com/common-fate/jit/pkg/access"
	"github.com/urfave/cli/v2"
)

var GrantCommand = cli.Command{
	Name:      "grant",
	Usage:     "Grant temporary Identity Center access to a user",
	UsageText: "jit [global options] grant [command options]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "Email address of the user to grant access to", Required: true},
		&cli.StringFlag{Name: "permission-set", Usage: "Name of the permission set to assign", Required: true},
		&cli.StringFlag{Name: "duration", Usage: "Requested access duration, e.g. PT2H", Value: "PT1H"},
	},
	Action: func(c *cli.Context) error {
		handler, err := newHandler(c)
		if err != nil {
			return err
		}
		return handler.Grant(c.Context, access.GrantInput{
			User:          c.String("user"),
			PermissionSet: c.String("permission-set"),
			Duration:      c.String("duration"),
		})
	},
}
