package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gnemet/dashgrid/catalog"
	"github.com/spf13/cobra"
)

var schemaPath string

var validateCmd = &cobra.Command{
	Use:   "validate <catalog_path1> [catalog_path2] ...",
	Short: "Validate widget catalogs against the catalog schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		allValid := true
		for _, path := range args {
			var err error
			if schemaPath != "" {
				err = catalog.ValidateWithSchema(schemaPath, path)
			} else {
				err = catalog.Validate(path)
			}

			var schemaErr *catalog.SchemaError
			switch {
			case err == nil:
				fmt.Printf("✅ %s is valid.\n", filepath.Base(path))
			case errors.As(err, &schemaErr):
				fmt.Printf("❌ %s is invalid!\n", filepath.Base(path))
				for _, desc := range schemaErr.Errors {
					fmt.Printf("   - %s\n", desc)
				}
				allValid = false
			default:
				fmt.Printf("❌ Error validating %s: %v\n", filepath.Base(path), err)
				allValid = false
			}
		}

		if !allValid {
			return errors.New("one or more catalogs are invalid")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&schemaPath, "schema", "", "schema file to validate against instead of the built-in schema")
}
