package jit

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/access"
	"github.com/common-fate/jit/pkg/testable"
	"github.com/urfave/cli/v2"
)

var RevokeCommand = cli.Command{
	Name:      "revoke",
	Usage:     "Revoke a user's Identity Center access",
	UsageText: "jit [global options] revoke [command options]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "Email address of the user to revoke access from", Required: true},
		&cli.StringFlag{Name: "permission-set", Usage: "Name of the permission set to remove", Required: true},
		&cli.BoolFlag{Name: "force", Usage: "Skip the confirmation prompt"},
	},
	Action: func(c *cli.Context) error {
		user := c.String("user")
		permissionSet := c.String("permission-set")

		if !c.Bool("force") {
			var confirm bool
			prompt := &survey.Confirm{
				Message: fmt.Sprintf("Revoke %s access for %s?", permissionSet, user),
			}
			if err := testable.AskOne(prompt, &confirm); err != nil {
				return err
			}
			if !confirm {
				clio.Info("Cancelled")
				return nil
			}
		}

		handler, err := newHandler(c)
		if err != nil {
			return err
		}
		return handler.Revoke(c.Context, access.RevokeInput{
			User:          user,
			PermissionSet: permissionSet,
		})
	},
}
