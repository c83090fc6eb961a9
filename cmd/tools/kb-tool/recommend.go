package main

import (
	"fmt"

	"career-workers/internal/scoring"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend job roles and skills to learn for a profile",
	RunE:  runRecommend,
}

var recommendProfilePath string

func init() {
	recommendCmd.Flags().StringVarP(&recommendProfilePath, "profile", "p", "", "Path to the profile JSON file (required)")
	if err := recommendCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	in, err := readProfileFile(recommendProfilePath)
	if err != nil {
		return err
	}
	roles, _, err := loadRows(kbPath)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	res := scoring.RankRoles(scoring.NewRegexSkillExtractor(), &in.Profile, roles)
	return writeJSON(cmd.OutOrStdout(), res)
}
