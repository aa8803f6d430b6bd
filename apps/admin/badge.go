package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcampusucv/web/core/recognition"
)

func (cli *commandLine) badgeCmd() *cobra.Command {
	var nr recognition.NewRecognition
	cmd := &cobra.Command{
		Use:   "badge",
		Short: "Issue a reconocimiento to a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, actor, err := cli.signIn(cmd)
			if err != nil {
				return err
			}
			rec, err := cli.recSvc.Issue(ctx, actor, nr)
			if err != nil {
				return err
			}
			to := fmt.Sprintf("usuario %d", rec.UsuarioID)
			if rec.Usuario != nil {
				to = rec.Usuario.FullName()
			}
			fmt.Fprintf(cli.out, "Reconocimiento #%d (%s) otorgado a %s\n", rec.ID, rec.Title(), to)
			return nil
		},
	}
	cmd.Flags().IntVarP(&nr.UsuarioID, "usuario", "u", 0, "ID of the user receiving the badge")
	cmd.Flags().StringVarP(&nr.Tipo, "tipo", "t", recognition.DefaultType, "badge, diploma or reconocimiento")
	cmd.Flags().StringVarP(&nr.Descripcion, "descripcion", "d", "", "Optional description")
	return cmd
}
