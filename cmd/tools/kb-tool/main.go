// Package main provides kb-tool, the operator CLI for the career knowledge base,
// offline scoring and the activity registry.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"career-workers/internal/knowledgebase"
	"career-workers/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "kb-tool",
	Short:         "Career knowledge base and scoring tool",
	Long:          "kb-tool validates, searches and imports knowledge base files, scores profiles offline and maintains the activity registry.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var kbPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&kbPath, "kb", "configs/knowledge_base.yaml", "Path to the knowledge base file")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRows reads path and reports the rows that fail the row schema. Every row is
// returned, the report is informational.
func loadRows(path string) ([]models.KnowledgeBaseRow, []knowledgebase.InvalidRow, error) {
	rows, err := knowledgebase.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	v, err := knowledgebase.NewRowValidator()
	if err != nil {
		return nil, nil, err
	}
	return rows, v.Check(rows), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
