package tracker

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
)

var categoryCmd = &cobra.Command{
	Use:               "category",
	Short:             "Manage exercise categories",
	PersistentPreRunE: requireLogin,
}

func printCategories(out io.Writer, cats *resource.Categories) {
	fmt.Fprintln(out, "ID\tNAME\tDESCRIPTION")
	for _, c := range cats.Snapshot().Items {
		fmt.Fprintf(out, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		cats := resource.NewCategories(rt.client, rt.resourceOptions())
		if err := cats.Load(cmd.Context()); err != nil {
			return err
		}
		printCategories(cmd.OutOrStdout(), cats)
		return nil
	},
}

var categoryDescription string

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category (admins only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("category name is required")
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		cats := resource.NewCategories(rt.client, rt.resourceOptions())
		created, err := cats.Create(cmd.Context(), model.CategoryInput{Name: name, Description: strings.TrimSpace(categoryDescription)})
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added category %d %q\n", created.ID, created.Name)
		if reloaded {
			printCategories(cmd.OutOrStdout(), cats)
		}
		return nil
	},
}

var categoryName string

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename or re-describe a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("category id", args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(categoryName) == "" {
			return fmt.Errorf("--name is required")
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		cats := resource.NewCategories(rt.client, rt.resourceOptions())
		updated, err := cats.Update(cmd.Context(), id, model.CategoryInput{Name: strings.TrimSpace(categoryName), Description: strings.TrimSpace(categoryDescription)})
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated category %d %q\n", updated.ID, updated.Name)
		if reloaded {
			printCategories(cmd.OutOrStdout(), cats)
		}
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("category id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		cats := resource.NewCategories(rt.client, rt.resourceOptions())
		reloaded, err := reportResync(cmd, cats.Delete(cmd.Context(), id))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)
		if reloaded {
			printCategories(cmd.OutOrStdout(), cats)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryUpdateCmd, categoryDeleteCmd)

	categoryAddCmd.Flags().StringVar(&categoryDescription, "description", "", "Category description")
	categoryUpdateCmd.Flags().StringVar(&categoryName, "name", "", "New category name")
	categoryUpdateCmd.Flags().StringVar(&categoryDescription, "description", "", "New category description")
}
