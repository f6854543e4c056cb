package jit

import (
	"github.com/common-fate/clio"
	"github.com/common-fate/jit/internal/build"
	"github.com/common-fate/jit/pkg/access"
	"github.com/common-fate/jit/pkg/banners"
	"github.com/common-fate/jit/pkg/config"
	"github.com/urfave/cli/v2"
)

func GetCliApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		clio.Log(banners.WithVersion())
	}

	flags := []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Usage: "Log debug messages"},
	}

	app := &cli.App{
		Flags:       flags,
		Name:        "jit",
		Usage:       "Grant and revoke just-in-time AWS access",
		UsageText:   "jit [global options] command [command options] [arguments...]",
		Version:     build.Version,
		HideVersion: false,
		Commands: []*cli.Command{
			&GrantCommand,
			&RevokeCommand,
			&S3Command,
		},
		EnableBashCompletion: true,
		Before: func(c *cli.Context) error {
			clio.SetLevelFromEnv("JIT_LOG")
			if c.Bool("verbose") {
				clio.SetLevelFromString("debug")
			}
			return nil
		},
	}

	return app
}

// newHandler loads the runtime config and constructs the access
// handler with real AWS clients.
func newHandler(c *cli.Context) (*access.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return access.New(c.Context, cfg)
}
