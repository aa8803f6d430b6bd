package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartcampusucv/web/core/participation"
)

func (cli *commandLine) rankingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Print the sustainability leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, usr, err := cli.signIn(cmd)
			if err != nil {
				return err
			}
			board, err := cli.partSvc.Leaderboard(ctx, usr.ID)
			if err != nil {
				return err
			}
			if limit > 0 && len(board.Entries) > limit {
				board.Entries = board.Entries[:limit]
			}
			return cli.printBoard(board)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Print only the first n entries")
	return cmd
}

func (cli *commandLine) printBoard(board participation.Board) error {
	if len(board.Entries) == 0 {
		fmt.Fprintln(cli.out, "Todavía no hay participaciones registradas.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tESTUDIANTE\tPUNTOS")
	for i, e := range board.Entries {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.Name(), e.Puntos)
	}
	return w.Flush()
}
