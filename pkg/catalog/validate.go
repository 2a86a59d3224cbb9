package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError represents one validation issue found in a
// bank file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf(
			"lessons[%d].%s: %s", e.Index, e.Field, e.Message,
		)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFile validates a bank file's structure and returns
// all issues found. An empty slice means the file is valid.
func ValidateFile(path string) []ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{
			Field: "file", Message: err.Error(), Index: -1,
		}}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var bank bankFile
	if ext == ".yaml" || ext == ".yml" {
		err = yaml.Unmarshal(data, &bank)
	} else {
		err = json.Unmarshal(data, &bank)
	}
	if err != nil {
		return []ValidationError{{
			Field: "format", Message: err.Error(), Index: -1,
		}}
	}

	return validateBank(&bank)
}

// validateBank checks the decoded bank structure.
func validateBank(bank *bankFile) []ValidationError {
	var errs []ValidationError

	if bank.Version == "" {
		errs = append(errs, ValidationError{
			Field: "version", Message: "version is required",
			Index: -1,
		})
	}

	ids := make(map[string]bool)
	for i, def := range bank.Lessons {
		if def.ID == "" {
			errs = append(errs, ValidationError{
				Field: "id", Message: "lesson ID is required",
				Index: i,
			})
		} else if ids[string(def.ID)] {
			errs = append(errs, ValidationError{
				Field: "id",
				Message: fmt.Sprintf(
					"duplicate ID: %s", def.ID,
				),
				Index: i,
			})
		} else {
			ids[string(def.ID)] = true
		}

		if def.Title == "" {
			errs = append(errs, ValidationError{
				Field: "title",
				Message: "lesson title is required",
				Index: i,
			})
		}

		if def.TimeoutMs <= 0 {
			errs = append(errs, ValidationError{
				Field: "timeout_ms",
				Message: "timeout must be positive",
				Index: i,
			})
		}

		if len(def.Steps) == 0 {
			errs = append(errs, ValidationError{
				Field: "steps",
				Message: "at least one step is required",
				Index: i,
			})
		}

		for j, sd := range def.Steps {
			if n := sd.VariantCount(); n != 1 {
				errs = append(errs, ValidationError{
					Field: fmt.Sprintf("steps[%d]", j),
					Message: fmt.Sprintf(
						"exactly one variant required, got %d",
						n,
					),
					Index: i,
				})
			}
			if sd.Assert != nil && sd.Assert.Type == "" {
				errs = append(errs, ValidationError{
					Field: fmt.Sprintf(
						"steps[%d].assert.type", j,
					),
					Message: "assertion type is required",
					Index:   i,
				})
			}
		}
	}

	// Prerequisites must reference lessons in the same bank
	// or be resolvable later; only in-bank self references
	// are checked here.
	for i, def := range bank.Lessons {
		for _, req := range def.Requires {
			if req == def.ID {
				errs = append(errs, ValidationError{
					Field: "requires",
					Message: fmt.Sprintf(
						"lesson cannot require itself: %s",
						req,
					),
					Index: i,
				})
			}
		}
	}

	return errs
}
