package cli

import (
	"github.com/spf13/cobra"
)

func newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Developer currency tools",
	}

	cmd.AddCommand(newDevSetGoldCmd())
	cmd.AddCommand(newDevSendGoldCmd())
	cmd.AddCommand(newDevLedgerCmd())

	return cmd
}

func newDevSetGoldCmd() *cobra.Command {
	var amount int64
	var target string

	cmd := &cobra.Command{
		Use:   "set-gold",
		Short: "Overwrite a gold balance (defaults to your own)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"amount": amount}
			if target != "" {
				req["target"] = target
			}
			var result Balance

			if err := client.Post(cmd.Context(), "/api/v1/dev/set-gold", req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "New balance (required)")
	cmd.Flags().StringVar(&target, "target", "", "Account to update")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newDevSendGoldCmd() *cobra.Command {
	var amount int64
	var to string

	cmd := &cobra.Command{
		Use:   "send-gold",
		Short: "Credit gold to an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"to": to, "amount": amount}
			var result Balance

			if err := client.Post(cmd.Context(), "/api/v1/dev/send-gold", req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Gold to credit (required)")
	cmd.Flags().StringVar(&to, "to", "", "Recipient (required)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newDevLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Show the gold transaction ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Transaction

			if err := client.Get(cmd.Context(), "/api/v1/dev/ledger", &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}
