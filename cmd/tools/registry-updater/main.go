package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"visa-predictor/internal/api"
	"visa-predictor/internal/common/errors"
	pva "visa-predictor/internal/workers/visa/predict-visa-approval"
	"visa-predictor/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "sync":
		err = runSync(os.Args[2:])
	default:
		help()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	cmd := flag.NewFlagSet("add", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	id := cmd.String("id", "", "Activity ID (e.g., predict-visa-approval)")
	displayName := cmd.String("displayName", "", "Display Name")
	description := cmd.String("description", "", "Description")
	category := cmd.String("category", "", "Category (e.g., decision)")
	taskType := cmd.String("taskType", "", "Camunda Task Type")
	version := cmd.String("version", "1.0.0", "Version")
	status := cmd.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
	_ = cmd.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		cmd.Usage()
		return fmt.Errorf("id, displayName, category and taskType are required for add")
	}

	reg, err := loadOrNew(*path)
	if err != nil {
		return err
	}
	if _, exists := reg.FindByID(*id); exists {
		return fmt.Errorf("activity with ID %s already exists", *id)
	}

	reg.Upsert(registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              "10s",
	})
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	cmd := flag.NewFlagSet("update", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	id := cmd.String("id", "", "Activity ID to update")
	field := cmd.String("field", "", "Field to update (status, version, etc.)")
	value := cmd.String("value", "", "New value for the field")
	_ = cmd.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		cmd.Usage()
		return fmt.Errorf("id, field and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	activity, ok := reg.FindByID(*id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	updated := *activity
	switch *field {
	case "status":
		updated.ImplementationStatus = *value
	case "version":
		updated.Version = *value
	case "displayName":
		updated.DisplayName = *value
	case "description":
		updated.Description = *value
	case "category":
		updated.Category = *value
	case "taskType":
		updated.TaskType = *value
	case "timeout":
		updated.Timeout = *value
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		updated.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	reg.Upsert(updated)
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	cmd := flag.NewFlagSet("validate", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	_ = cmd.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// runSync writes the predict-visa-approval activity with the schemas the
// service validates against.
func runSync(args []string) error {
	cmd := flag.NewFlagSet("sync", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	version := cmd.String("version", "1.0.0", "Activity version")
	_ = cmd.Parse(args)

	reg, err := loadOrNew(*path)
	if err != nil {
		return err
	}

	replaced := reg.Upsert(predictActivity(*version))
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}

	verb := "Added"
	if replaced {
		verb = "Updated"
	}
	fmt.Printf("%s activity %s in %s\n", verb, pva.TaskType, *path)
	return nil
}

func predictActivity(version string) registry.Activity {
	return registry.Activity{
		ID:                   pva.TaskType,
		DisplayName:          "Predict Visa Approval",
		Description:          "Scores an applicant profile and returns the approval decision with reasons and easier destinations",
		Category:             "decision",
		Version:              version,
		TaskType:             pva.TaskType,
		ImplementationStatus: registry.StatusCompleted,
		InputSchema:          api.PredictRequestSchema(nil),
		OutputSchema:         api.PredictResponseSchema(),
		ErrorCodes:           pva.ErrorCodes(),
		Timeout:              "30s",
		Retries:              errors.GetRetryCount(errors.ErrCodeClassifierUnavailable),
		Workflows:            []string{"visa-application"},
		Tags:                 []string{"visa", "ml", "decision"},
	}
}

func loadOrNew(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if os.IsNotExist(err) {
		return registry.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  sync      Write the predict-visa-approval activity with its built-in schemas
  help      Show this help message

Examples:
  registry-updater sync -path configs/activity-registry.json
  registry-updater update -id predict-visa-approval -field status -value verified
  registry-updater validate`)
}
