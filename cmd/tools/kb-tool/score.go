package main

import (
	"encoding/json"
	"fmt"
	"os"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"
	"career-workers/internal/scoring"

	"github.com/spf13/cobra"
)

// profileFile is the offline input of score and recommend. Documents and the
// completed soft skill course count stand in for the database.
type profileFile struct {
	Profile          models.Profile    `json:"profile"`
	Documents        []models.Document `json:"documents"`
	SoftSkillCourses int               `json:"softSkillCourses"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the career readiness score of a profile",
	Long:  "Scores a profile JSON file against the knowledge base without touching the database and prints the ScoreResult as JSON.",
	RunE:  runScore,
}

var scoreProfilePath string

func init() {
	scoreCmd.Flags().StringVarP(&scoreProfilePath, "profile", "p", "", "Path to the profile JSON file (required)")
	if err := scoreCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	in, err := readProfileFile(scoreProfilePath)
	if err != nil {
		return err
	}
	roles, _, err := loadRows(kbPath)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	engine := scoring.NewEngine(nil, nil, logger.NewNoOpLogger())
	res, err := engine.Evaluate(&scoring.Inputs{
		Profile:          &in.Profile,
		Documents:        in.Documents,
		SoftSkillCourses: in.SoftSkillCourses,
		Roles:            roles,
	})
	if err != nil {
		return fmt.Errorf("failed to score profile: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), res)
}

func readProfileFile(path string) (*profileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	var in profileFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}
	if in.Profile.UserID == "" {
		in.Profile.UserID = "offline"
	}
	if err := models.Validate(&in.Profile); err != nil {
		return nil, err
	}
	if in.Documents == nil {
		in.Documents = []models.Document{}
	}
	return &in, nil
}
