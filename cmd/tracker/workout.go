package tracker

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
)

var workoutCmd = &cobra.Command{
	Use:               "workout",
	Short:             "Log workouts and their sets",
	PersistentPreRunE: requireLogin,
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		w := resource.NewWorkouts(rt.client, rt.resourceOptions())
		if err := w.Load(cmd.Context()); err != nil {
			return err
		}
		printWorkouts(cmd.OutOrStdout(), w)
		return nil
	},
}

func printWorkouts(out io.Writer, w *resource.Workouts) {
	fmt.Fprintln(out, "ID\tDATE\tNOTES")
	for _, item := range w.Snapshot().Items {
		fmt.Fprintf(out, "%d\t%s\t%s\n", item.ID, formatDate(item.Date), item.Notes)
	}
}

func printSets(out io.Writer, detail *resource.WorkoutDetail) {
	fmt.Fprintln(out, "SET_ID\tEXERCISE_ID\tEXERCISE\tSETS\tREPS\tWEIGHT\tNOTES")
	for _, s := range detail.Sets().Items {
		name := ""
		if s.Exercise != nil {
			name = s.Exercise.Name
		}
		fmt.Fprintf(out, "%d\t%d\t%s\t%d\t%d\t%.2f\t%s\n", s.ID, s.ExerciseID, name, s.Sets, s.Reps, s.Weight, s.Notes)
	}
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout and its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("workout id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		detail := resource.NewWorkoutDetail(rt.client, id, rt.resourceOptions())
		if err := detail.Load(cmd.Context()); err != nil {
			return err
		}
		w := detail.Workout()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "WORKOUT\t%d\n", w.ID)
		fmt.Fprintf(out, "DATE\t%s\n", formatDate(w.Date))
		fmt.Fprintf(out, "NOTES\t%s\n", w.Notes)
		printSets(out, detail)
		return nil
	},
}

var (
	workoutDate  string
	workoutNotes string
)

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout (date defaults to today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateOrToday(workoutDate)
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		w := resource.NewWorkouts(rt.client, rt.resourceOptions())
		created, err := w.Create(cmd.Context(), model.WorkoutInput{Date: date, Notes: strings.TrimSpace(workoutNotes)})
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added workout %d on %s\n", created.ID, formatDate(created.Date))
		if reloaded {
			printWorkouts(cmd.OutOrStdout(), w)
		}
		return nil
	},
}

var workoutUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a workout's date or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("workout id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		existing, err := rt.client.GetWorkout(cmd.Context(), id)
		if err != nil {
			return err
		}
		in := model.WorkoutInput{Date: existing.Date, Notes: existing.Notes}
		if cmd.Flags().Changed("date") {
			if in.Date, err = parseDateOrToday(workoutDate); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("notes") {
			in.Notes = strings.TrimSpace(workoutNotes)
		}
		w := resource.NewWorkouts(rt.client, rt.resourceOptions())
		updated, err := w.Update(cmd.Context(), id, in)
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated workout %d\n", updated.ID)
		if reloaded {
			printWorkouts(cmd.OutOrStdout(), w)
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout and its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("workout id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		w := resource.NewWorkouts(rt.client, rt.resourceOptions())
		reloaded, err := reportResync(cmd, w.Delete(cmd.Context(), id))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %d\n", id)
		if reloaded {
			printWorkouts(cmd.OutOrStdout(), w)
		}
		return nil
	},
}

var workoutSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Add, change or remove exercise sets in a workout",
}

var (
	setExerciseID int
	setSets       int
	setReps       int
	setWeight     float64
	setNotes      string
)

func setInput() model.WorkoutExerciseInput {
	return model.WorkoutExerciseInput{
		ExerciseID: setExerciseID,
		Sets:       setSets,
		Reps:       setReps,
		Weight:     setWeight,
		Notes:      strings.TrimSpace(setNotes),
	}
}

var workoutSetAddCmd = &cobra.Command{
	Use:   "add <workout-id>",
	Short: "Add an exercise set to a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutID, err := parseIDArg("workout id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		detail := resource.NewWorkoutDetail(rt.client, workoutID, rt.resourceOptions())
		created, err := detail.AddSet(cmd.Context(), setInput())
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added set %d to workout %d\n", created.ID, workoutID)
		if reloaded {
			printSets(cmd.OutOrStdout(), detail)
		}
		return nil
	},
}

var workoutSetUpdateCmd = &cobra.Command{
	Use:   "update <workout-id> <set-id>",
	Short: "Replace an exercise set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutID, err := parseIDArg("workout id", args[0])
		if err != nil {
			return err
		}
		setID, err := parseIDArg("set id", args[1])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		detail := resource.NewWorkoutDetail(rt.client, workoutID, rt.resourceOptions())
		_, err = detail.UpdateSet(cmd.Context(), setID, setInput())
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated set %d\n", setID)
		if reloaded {
			printSets(cmd.OutOrStdout(), detail)
		}
		return nil
	},
}

var workoutSetDeleteCmd = &cobra.Command{
	Use:   "delete <workout-id> <set-id>",
	Short: "Remove an exercise set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutID, err := parseIDArg("workout id", args[0])
		if err != nil {
			return err
		}
		setID, err := parseIDArg("set id", args[1])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		detail := resource.NewWorkoutDetail(rt.client, workoutID, rt.resourceOptions())
		reloaded, err := reportResync(cmd, detail.RemoveSet(cmd.Context(), setID))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted set %d\n", setID)
		if reloaded {
			printSets(cmd.OutOrStdout(), detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutListCmd, workoutShowCmd, workoutAddCmd, workoutUpdateCmd, workoutDeleteCmd, workoutSetCmd)
	workoutSetCmd.AddCommand(workoutSetAddCmd, workoutSetUpdateCmd, workoutSetDeleteCmd)

	for _, c := range []*cobra.Command{workoutAddCmd, workoutUpdateCmd} {
		c.Flags().StringVar(&workoutDate, "date", "", "Workout date YYYY-MM-DD")
		c.Flags().StringVar(&workoutNotes, "notes", "", "Workout notes")
	}
	for _, c := range []*cobra.Command{workoutSetAddCmd, workoutSetUpdateCmd} {
		c.Flags().IntVar(&setExerciseID, "exercise", 0, "Exercise id")
		c.Flags().IntVar(&setSets, "sets", 0, "Number of sets")
		c.Flags().IntVar(&setReps, "reps", 0, "Reps per set")
		c.Flags().Float64Var(&setWeight, "weight", 0, "Weight per rep")
		c.Flags().StringVar(&setNotes, "notes", "", "Set notes")
	}
}
