package main

import (
	"fmt"

	"career-workers/internal/common/validation"
	"career-workers/pkg/registry"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Maintain the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check required fields and compile every input schema",
	RunE:  runRegistryValidate,
}

var registryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an activity",
	RunE:  runRegistryAdd,
}

var registryUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update one field of an activity",
	RunE:  runRegistryUpdate,
}

var (
	registryPath string

	addID          string
	addDisplayName string
	addDescription string
	addCategory    string
	addTaskType    string
	addVersion     string
	addStatus      string

	updateID    string
	updateField string
	updateValue string
)

func init() {
	registryCmd.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	registryAddCmd.Flags().StringVar(&addID, "id", "", "Activity ID (e.g., career.score.compute)")
	registryAddCmd.Flags().StringVar(&addDisplayName, "displayName", "", "Display name")
	registryAddCmd.Flags().StringVar(&addDescription, "description", "", "Description")
	registryAddCmd.Flags().StringVar(&addCategory, "category", "", "Category (e.g., career)")
	registryAddCmd.Flags().StringVar(&addTaskType, "taskType", "", "Zeebe task type")
	registryAddCmd.Flags().StringVar(&addVersion, "version", "1.0.0", "Version")
	registryAddCmd.Flags().StringVar(&addStatus, "status", "planned", "Implementation status (planned, in-progress, completed, verified)")
	for _, f := range []string{"id", "displayName", "description", "category", "taskType"} {
		if err := registryAddCmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", f, err))
		}
	}

	registryUpdateCmd.Flags().StringVar(&updateID, "id", "", "Activity ID to update")
	registryUpdateCmd.Flags().StringVar(&updateField, "field", "", "Field to update (status, version, timeout, retries, ...)")
	registryUpdateCmd.Flags().StringVar(&updateValue, "value", "", "New value for the field")
	for _, f := range []string{"id", "field", "value"} {
		if err := registryUpdateCmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", f, err))
		}
	}

	registryCmd.AddCommand(registryValidateCmd, registryAddCmd, registryUpdateCmd)
	rootCmd.AddCommand(registryCmd)
}

func runRegistryValidate(cmd *cobra.Command, _ []string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registry is valid: %d activities\n", len(reg.Activities))
	return nil
}

func runRegistryAdd(cmd *cobra.Command, _ []string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	err = reg.Add(registry.Activity{
		ID:                   addID,
		DisplayName:          addDisplayName,
		Description:          addDescription,
		Category:             addCategory,
		Version:              addVersion,
		TaskType:             addTaskType,
		ImplementationStatus: addStatus,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              "10s",
		Workflows:            []string{},
		Tags:                 []string{},
	})
	if err != nil {
		return err
	}
	if err := registry.SaveRegistry(reg, registryPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", addID)
	return nil
}

func runRegistryUpdate(cmd *cobra.Command, _ []string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	if err := reg.Update(updateID, updateField, updateValue); err != nil {
		return err
	}
	if err := registry.SaveRegistry(reg, registryPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s for activity %s\n", updateField, updateID)
	return nil
}
