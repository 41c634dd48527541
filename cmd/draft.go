package main

import (
	"github.com/spf13/cobra"

	"github.com/pitchintel/brief-cli/internal/draft"
)

var (
	draftType        string
	draftLastOutcome string
	draftUserID      string
)

var draftCmd = &cobra.Command{
	Use:   "draft <brief-id>",
	Short: "Generate an outreach draft from a stored brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Drafts.Generate(ctx, draft.Request{
			BriefID:     args[0],
			Type:        draft.Type(draftType),
			LastOutcome: draftLastOutcome,
		}, draftUserID)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	draftCmd.Flags().StringVar(&draftType, "type", "email", "draft type: email, dm, followup, or rebuttal")
	draftCmd.Flags().StringVar(&draftLastOutcome, "last-outcome", "", "outcome of the previous touch (followup/rebuttal)")
	draftCmd.Flags().StringVar(&draftUserID, "user", "", "owner user id for scoping")
	rootCmd.AddCommand(draftCmd)
}
