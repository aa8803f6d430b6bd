package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcampusucv/web/core/user"
)

// addUserCmd registers an account through the public sign-up endpoint; no sign-in needed.
func (cli *commandLine) addUserCmd() *cobra.Command {
	var nu user.NewUser
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if nu.CorreoInstitucional == "" {
				_ = cmd.Usage()
				return errHelp
			}
			pwd, err := cli.prompt("Enter new password:")
			if err != nil {
				return err
			}
			nu.Contrasena = pwd
			if err := cli.usrSvc.SignUp(cmd.Context(), nu); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Cuenta creada: %s\n", nu.CorreoInstitucional)
			return nil
		},
	}
	cmd.Flags().StringVar(&nu.Nombre, "nombre", "", "First name")
	cmd.Flags().StringVar(&nu.Apellido, "apellido", "", "Last name")
	cmd.Flags().StringVar(&nu.CorreoInstitucional, "correo", "", "Institutional email of the new account")
	cmd.Flags().StringVar(&nu.Rol, "rol", user.RoleStudent, "estudiante, organizador or administrador")
	return cmd
}
