package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/connectfour/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game session commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameUpdateCmd())
	cmd.AddCommand(newGameFinishCmd())
	cmd.AddCommand(newGameRematchCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <player1> <player2>",
		Short: "Start a session between two registered players",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"jugador1": args[0], "jugador2": args[1]}
			var result SessionCreated

			if err := client.Post(cmd.Context(), "/api/crear_partida", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every session, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []SessionSummary

			if err := client.Get(cmd.Context(), "/api/listar_partidas", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameUpdateCmd() *cobra.Command {
	var boardFile string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the board of an in-progress session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseSessionID(args[0])
			if err != nil {
				return err
			}
			board, err := readBoard(cmd, boardFile)
			if err != nil {
				return err
			}

			req := map[string]any{"id_partida": int64(id), "partida": board}
			var result Result

			if err := client.Post(cmd.Context(), "/api/actualizar_partida_por_id", req, &result); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Session %d updated", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&boardFile, "board", "", "Board JSON file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("board")

	return cmd
}

func newGameFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id>",
		Short: "Mark a session finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseSessionID(args[0])
			if err != nil {
				return err
			}

			req := map[string]int64{"id_partida": int64(id)}
			if err := client.Post(cmd.Context(), "/api/terminar_partida_por_id", req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Session %d finished", id))
			return nil
		},
	}
}

func newGameRematchCmd() *cobra.Command {
	var from int64

	cmd := &cobra.Command{
		Use:   "rematch <player1> <player2>",
		Short: "Start a new session between the same players",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"jugador1": args[0], "jugador2": args[1]}
			if from > 0 {
				req["id_partida_original"] = from
			}
			var result SessionCreated

			if err := client.Post(cmd.Context(), "/api/crear_nueva_partida", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&from, "from", 0, "Previous session id")

	return cmd
}

// readBoard loads a board payload from path, or from stdin when path is "-".
// The payload is normalized the same way the server stores it.
func readBoard(cmd *cobra.Command, path string) (model.BoardState, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.BoardState{}, fmt.Errorf("failed to read board: %w", err)
	}

	board, err := model.ParseBoardState(data)
	if err != nil {
		return model.BoardState{}, err
	}
	return board, nil
}

