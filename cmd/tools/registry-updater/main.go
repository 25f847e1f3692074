// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"underwriting-workers/pkg/registry"
)

const defaultPath = "configs/activity-registry.json"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to registry file")
		version := fs.String("version", "1.0.0", "Registry version")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		reg := registry.Underwriting(*version)
		if err := registry.Save(reg, *path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d activities to %s\n", len(reg.Activities), *path)
		return nil

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID to update")
		field := fs.String("field", "", "Field to update (status, version, timeout, retries, description)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			return fmt.Errorf("id, field, and value are required for update")
		}
		if err := updateActivity(*path, *id, *field, *value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *id, *field, *value)
		return nil

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to registry file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return validateRegistry(*path, out)

	case "help":
		help(out)
		return nil

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return registry.Save(reg, path)
}

// validateRegistry checks the file on its own and against the task types the
// workers actually serve.
func validateRegistry(path string, out io.Writer) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	missing, extra := registry.Diff(registry.Underwriting(reg.Version), reg)
	if len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("registry is out of date: missing %v, unknown %v", missing, extra)
	}

	fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: registry-updater <command> [flags]

Commands:
  export   Write the underwriting activity registry
  update   Update an existing activity's field
  validate Validate the registry file against the served task types
  help     Show this help message

Examples:
  registry-updater export -path configs/activity-registry.json -version 1.2.0
  registry-updater update -id record-decision -field retries -value 5
  registry-updater validate -path configs/activity-registry.json
`)
}
