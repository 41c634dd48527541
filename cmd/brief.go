package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/model"
)

var (
	briefCompany string
	briefWebsite string
	briefIntent  string
	briefUserID  string
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Create and inspect sales briefs",
}

var briefCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a brief for a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		brief, err := env.Pipeline.CreateBrief(ctx, model.BriefRequest{
			CompanyName: briefCompany,
			Website:     briefWebsite,
			UserIntent:  briefIntent,
			UserID:      briefUserID,
		})
		if err != nil {
			return err
		}

		zap.L().Info("brief created", zap.String("id", brief.ID))
		return printJSON(brief)
	},
}

var briefGetCmd = &cobra.Command{
	Use:   "get <brief-id>",
	Short: "Fetch a stored brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		brief, err := st.GetBrief(ctx, args[0], briefUserID)
		if err != nil {
			return err
		}
		if brief == nil {
			return eris.Errorf("brief not found: %s", args[0])
		}
		return printJSON(brief)
	},
}

var briefListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored briefs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		briefs, err := st.ListBriefs(ctx, briefUserID)
		if err != nil {
			return err
		}
		if briefs == nil {
			briefs = []model.Brief{}
		}
		return printJSON(briefs)
	},
}

var briefDeleteCmd = &cobra.Command{
	Use:   "delete <brief-id>",
	Short: "Delete a stored brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteBrief(ctx, args[0], briefUserID); err != nil {
			return err
		}
		zap.L().Info("brief deleted", zap.String("id", args[0]))
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	briefCreateCmd.Flags().StringVar(&briefCompany, "company", "", "target company name (required)")
	briefCreateCmd.Flags().StringVar(&briefWebsite, "website", "", "target company website")
	briefCreateCmd.Flags().StringVar(&briefIntent, "intent", "", "what you want to sell or achieve (required)")
	briefCreateCmd.MarkFlagRequired("company") //nolint:errcheck
	briefCreateCmd.MarkFlagRequired("intent")  //nolint:errcheck

	briefCmd.PersistentFlags().StringVar(&briefUserID, "user", "", "owner user id for scoping")

	briefCmd.AddCommand(briefCreateCmd, briefGetCmd, briefListCmd, briefDeleteCmd)
	rootCmd.AddCommand(briefCmd)
}
