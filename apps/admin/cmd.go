package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoPassword = errors.New("password required")
)

type commandLine struct {
	usrSvc  *user.Service
	partSvc *participation.Service
	recSvc  *recognition.Service

	in    *os.File
	out   io.Writer
	email string
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "SmartCampus operator commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.PersistentFlags().StringVarP(&cli.email, "email", "e", "", "Institutional email to sign in with. The password will be prompted next.")

	root.AddCommand(cli.usersCmd(), cli.rankingCmd(), cli.badgeCmd(), cli.addUserCmd())
	return root
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args[1:])
	return root.Execute()
}

// prompt reads a secret from the terminal without echoing it.
func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(cli.in.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errNoPassword
	}
	return string(pwd), nil
}

// signIn authenticates --email and returns a context carrying the session token.
func (cli *commandLine) signIn(cmd *cobra.Command) (context.Context, *user.User, error) {
	if strings.TrimSpace(cli.email) == "" {
		_ = cmd.Usage()
		return nil, nil, errHelp
	}
	pwd, err := cli.prompt("Enter password:")
	if err != nil {
		return nil, nil, err
	}
	state, err := cli.usrSvc.SignIn(cmd.Context(), cli.email, pwd)
	if err != nil {
		return nil, nil, err
	}
	return core.ContextWithToken(cmd.Context(), state.Token), state.User, nil
}
