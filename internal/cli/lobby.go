package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby management commands",
	}

	cmd.AddCommand(newLobbyCreateCmd())
	cmd.AddCommand(newLobbyListCmd())
	cmd.AddCommand(newLobbyGetCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyTeamCmd())
	cmd.AddCommand(newLobbyStartCmd())

	return cmd
}

func newLobbyCreateCmd() *cobra.Command {
	var mapID, mode string
	var gameTime int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new lobby and become its host",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"map":       mapID,
				"mode":      mode,
				"game_time": gameTime,
			}
			var result Lobby

			if err := client.Post(cmd.Context(), "/api/v1/lobbies", req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mapID, "map", "waterloo", "Map identifier")
	cmd.Flags().StringVar(&mode, "mode", "1v1", "Mode: 1v1 or 2v2")
	cmd.Flags().IntVar(&gameTime, "game-time", 600, "Match length in seconds")

	return cmd
}

func newLobbyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lobbies waiting for players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Lobby

			if err := client.Get(cmd.Context(), "/api/v1/lobbies", &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get lobby details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/lobbies/%s", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Join a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/lobbies/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/lobbies/%s/leave", id), nil, nil); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).PrintMessage(fmt.Sprintf("Left lobby %s", id))
			return nil
		},
	}
}

func newLobbyTeamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "team <id> <red|blue>",
		Short: "Choose a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"team": args[1]}
			var result Lobby

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/lobbies/%s/team", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newLobbyStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the match (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/lobbies/%s/start", args[0]), nil, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "Show the lobby or match you are currently in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActiveMatch

			if err := client.Get(cmd.Context(), "/api/v1/matches/active", &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
