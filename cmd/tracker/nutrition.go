package tracker

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
)

var nutritionDate string

var nutritionCmd = &cobra.Command{
	Use:               "nutrition",
	Short:             "Show nutrition entries synced from FatSecret for a day",
	PersistentPreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		n := resource.NewNutrition(rt.client, rt.resourceOptions())
		if err := n.SetDate(cmd.Context(), nutritionDate); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "DATE\t%s\n", n.Date())
		fmt.Fprintln(out, "ID\tFOOD\tKCAL\tPROTEIN\tCARBS\tFAT")
		for _, e := range n.Snapshot().Items {
			fmt.Fprintf(out, "%d\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n", e.ID, e.FoodName, e.Calories, e.Protein, e.Carbs, e.Fat)
		}
		t := n.Totals()
		fmt.Fprintf(out, "TOTAL\t\t%.0f\t%.1f\t%.1f\t%.1f\n", t.Calories, t.Protein, t.Carbs, t.Fat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nutritionCmd)
	nutritionCmd.Flags().StringVar(&nutritionDate, "date", "", "Day to show, YYYY-MM-DD (default today)")
}
