package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartcampusucv/web/core/user"
)

func (cli *commandLine) usersCmd() *cobra.Command {
	var filter user.QueryFilter
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := cli.signIn(cmd)
			if err != nil {
				return err
			}
			users, err := cli.usrSvc.Query(ctx, filter)
			if err != nil {
				return err
			}
			return cli.printUsers(users)
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "q", "", "Filter by name or email")
	cmd.Flags().StringSliceVar(&filter.Roles, "rol", nil, "Filter by role (estudiante, organizador, administrador)")
	return cmd
}

func (cli *commandLine) printUsers(users []user.User) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tCORREO\tROL")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.FullName(), u.CorreoInstitucional, user.RoleName(u.Rol))
	}
	fmt.Fprintf(w, "\n%d usuarios\n", len(users))
	return w.Flush()
}
