package cli

import (
	"errors"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerStatsCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, identity string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := url.Values{"nombre": {name}, "identificacion": {identity}}
			var result Result

			if err := client.PostForm(cmd.Context(), "/registro", form, &result); err != nil {
				return err
			}
			// A taken name or identity is answered with 200 and success=false
			if !result.Success {
				return errors.New(result.Message)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&identity, "id", "", "Identity document (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <name>",
		Short: "Show a player's score and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerStats

			if err := client.Get(cmd.Context(), "/api/estadisticas?"+url.Values{"nombre": {args[0]}}.Encode(), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show every player ordered by score",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardEntry

			if err := client.Get(cmd.Context(), "/api/escalafon", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
