package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/logger"
	"career-workers/internal/knowledgebase"

	"github.com/spf13/cobra"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and maintain knowledge base files",
}

var kbValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every row of the knowledge base file",
	Long:  "Loads the knowledge base file, prints the rows that fail the row schema and exits non-zero when any row is invalid. Invalid rows are still served by the workers.",
	RunE:  runKBValidate,
}

var kbSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search roles in the knowledge base file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKBSearch,
}

var kbImportCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Convert a knowledge base upload into the configured file",
	Long:  "Reads an xlsx, csv, yaml or json file and writes every non-blank row to --kb in the format named by its extension.",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBImport,
}

var kbIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the Elasticsearch role index from the knowledge base file",
	RunE:  runKBIndex,
}

var (
	kbSearchLimit int
	kbConfigPath  string
)

func init() {
	kbSearchCmd.Flags().IntVarP(&kbSearchLimit, "limit", "n", knowledgebase.DefaultSearchLimit, "Maximum number of results")
	kbIndexCmd.Flags().StringVar(&kbConfigPath, "config", "configs/config.yaml", "Path to the worker configuration")

	kbCmd.AddCommand(kbValidateCmd, kbSearchCmd, kbImportCmd, kbIndexCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBValidate(cmd *cobra.Command, _ []string) error {
	rows, invalid, err := loadRows(kbPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d valid, %d invalid\n", kbPath, len(rows)-len(invalid), len(invalid))
	for _, r := range invalid {
		fmt.Fprintf(out, "  row %d (%q): %s\n", r.Index, r.JobRole, strings.Join(r.Errors, "; "))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%d invalid rows", len(invalid))
	}
	return nil
}

func runKBSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}
	rows, _, err := loadRows(kbPath)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), knowledgebase.SearchRoles(rows, query, kbSearchLimit))
}

func runKBImport(cmd *cobra.Command, args []string) error {
	rows, invalid, err := loadRows(args[0])
	if err != nil {
		return err
	}
	if err := knowledgebase.SaveFile(kbPath, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", kbPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows into %s (%d fail the row schema)\n", len(rows), kbPath, len(invalid))
	return nil
}

func runKBIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFromFile(kbConfigPath)
	if err != nil {
		return err
	}
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	if err := es.Ping(ctx); err != nil {
		return err
	}

	rows, _, err := loadRows(kbPath)
	if err != nil {
		return err
	}
	index := knowledgebase.NewIndex(es.Client, cfg.KnowledgeBase.IndexName, logger.NewStructured(cfg.Logging.Level, "console"))
	n, err := index.Reindex(ctx, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d of %d rows into %s\n", n, len(rows), index.Name())
	return nil
}
