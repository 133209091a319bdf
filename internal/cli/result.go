package cli

import (
	"github.com/spf13/cobra"
)

func newResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Record finished games in the players' statistics",
	}

	cmd.AddCommand(newResultWinCmd())
	cmd.AddCommand(newResultDrawCmd())

	return cmd
}

func newResultWinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "win <winner> <loser>",
		Short: "Record a win",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"ganador": args[0], "perdedor": args[1]}

			if err := client.Post(cmd.Context(), "/actualizar_estadisticas", req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Win recorded for " + args[0])
			return nil
		},
	}
}

func newResultDrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw <player1> <player2>",
		Short: "Record a draw",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"jugador1": args[0], "jugador2": args[1]}

			if err := client.Post(cmd.Context(), "/actualizar_empate", req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Draw recorded")
			return nil
		},
	}
}
