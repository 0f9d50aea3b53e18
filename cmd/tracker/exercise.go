package tracker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
)

var exerciseCmd = &cobra.Command{
	Use:               "exercise",
	Short:             "Browse and manage the exercise catalog",
	PersistentPreRunE: requireLogin,
}

var (
	exerciseSearch   string
	exerciseCategory int
	exerciseOrder    string
	exercisePage     int
	exerciseLimit    int
	exerciseWatch    bool
)

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercises with search, category filter, ordering and paging",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		filters := resource.ExerciseFilters{Name: exerciseSearch, Order: exerciseOrder}
		if exerciseCategory != 0 {
			id := exerciseCategory
			filters.CategoryID = &id
		}
		ex := resource.NewExercises(rt.client, rt.resourceOptions())
		defer ex.Close()
		if err := ex.SetFilters(filters); err != nil {
			return err
		}
		ex.SetLimit(exerciseLimit)
		ex.SetPage(exercisePage)
		if err := ex.Load(cmd.Context()); err != nil {
			return err
		}
		printExercises(cmd.OutOrStdout(), ex)
		if exerciseWatch {
			return watchExercises(cmd, ex)
		}
		return nil
	},
}

func printExercises(out io.Writer, ex *resource.Exercises) {
	snap := ex.Snapshot()
	fmt.Fprintln(out, "ID\tNAME\tCATEGORY_ID\tDESCRIPTION")
	for _, e := range snap.Items {
		fmt.Fprintf(out, "%d\t%s\t%d\t%s\n", e.ID, e.Name, e.CategoryID, e.Description)
	}
	page, pages := ex.Pages()
	fmt.Fprintf(out, "page %d/%d, %d total\n", page, pages, snap.Total)
}

// watchExercises reads filter edits from stdin, one per line, and reloads through
// the debouncer. A line is either free text (the search term) or key=value pairs:
// search=, category=, order=, limit=. "next" and "prev" move between pages.
// Only the listing for the most recent edit is printed.
func watchExercises(cmd *cobra.Command, ex *resource.Exercises) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	type result struct {
		gen int
		err error
	}
	var (
		mu     sync.Mutex
		gen    int
		latest *result
	)
	settled := make(chan struct{}, 1)
	reload := func() {
		mu.Lock()
		gen++
		g := gen
		mu.Unlock()
		ex.Reload(ctx, func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if g != gen {
				return
			}
			if err == nil {
				printExercises(out, ex)
			}
			latest = &result{gen: g, err: err}
			select {
			case settled <- struct{}{}:
			default:
			}
		})
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "next":
			if ex.Next() {
				reload()
			}
			continue
		case "prev":
			if ex.Prev() {
				reload()
			}
			continue
		}
		filters, limit, err := parseWatchLine(ex.Filters(), line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "ignored: %v\n", err)
			continue
		}
		if err := ex.SetFilters(filters); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "ignored: %v\n", err)
			continue
		}
		if limit > 0 {
			ex.SetLimit(limit)
		}
		reload()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read filters: %w", err)
	}

	mu.Lock()
	last := gen
	mu.Unlock()
	if last == 0 {
		return nil
	}
	for {
		mu.Lock()
		r := latest
		mu.Unlock()
		if r != nil && r.gen == last {
			if errors.Is(r.err, remote.ErrStale) || errors.Is(r.err, context.Canceled) {
				return nil
			}
			return r.err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-settled:
		}
	}
}

func parseWatchLine(f resource.ExerciseFilters, line string) (resource.ExerciseFilters, int, error) {
	if !strings.Contains(line, "=") {
		f.Name = line
		return f, 0, nil
	}
	limit := 0
	for _, field := range strings.Fields(line) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return f, 0, fmt.Errorf("expected key=value, got %q", field)
		}
		switch key {
		case "search", "name":
			f.Name = value
		case "order":
			f.Order = value
		case "category":
			if value == "" || value == "0" {
				f.CategoryID = nil
				continue
			}
			id, err := parseIDArg("category id", value)
			if err != nil {
				return f, 0, err
			}
			f.CategoryID = &id
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return f, 0, fmt.Errorf("limit must be > 0")
			}
			limit = n
		default:
			return f, 0, fmt.Errorf("unknown filter %q", key)
		}
	}
	return f, limit, nil
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("exercise id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		e, err := resource.NewExercises(rt.client, rt.resourceOptions()).Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID\t%d\n", e.ID)
		fmt.Fprintf(out, "NAME\t%s\n", e.Name)
		fmt.Fprintf(out, "CATEGORY_ID\t%d\n", e.CategoryID)
		fmt.Fprintf(out, "DESCRIPTION\t%s\n", e.Description)
		fmt.Fprintf(out, "UPDATED\t%s\n", formatDate(e.UpdatedAt))
		return nil
	},
}

var (
	exerciseName        string
	exerciseDescription string
	exerciseCategoryID  int
)

func exerciseInput() model.ExerciseInput {
	return model.ExerciseInput{
		Name:        strings.TrimSpace(exerciseName),
		Description: strings.TrimSpace(exerciseDescription),
		CategoryID:  exerciseCategoryID,
	}
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an exercise (moderators and admins)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		ex := resource.NewExercises(rt.client, rt.resourceOptions())
		created, err := ex.Create(cmd.Context(), exerciseInput())
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added exercise %d %q\n", created.ID, created.Name)
		if reloaded {
			printExercises(cmd.OutOrStdout(), ex)
		}
		return nil
	},
}

var exerciseUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace an exercise's name, description and category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("exercise id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		ex := resource.NewExercises(rt.client, rt.resourceOptions())
		updated, err := ex.Update(cmd.Context(), id, exerciseInput())
		reloaded, err := reportResync(cmd, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated exercise %d %q\n", updated.ID, updated.Name)
		if reloaded {
			printExercises(cmd.OutOrStdout(), ex)
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg("exercise id", args[0])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		ex := resource.NewExercises(rt.client, rt.resourceOptions())
		reloaded, err := reportResync(cmd, ex.Delete(cmd.Context(), id))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted exercise %d\n", id)
		if reloaded {
			printExercises(cmd.OutOrStdout(), ex)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.AddCommand(exerciseListCmd, exerciseShowCmd, exerciseAddCmd, exerciseUpdateCmd, exerciseDeleteCmd)

	exerciseListCmd.Flags().StringVar(&exerciseSearch, "search", "", "Filter by name")
	exerciseListCmd.Flags().IntVar(&exerciseCategory, "category", 0, "Filter by category id")
	exerciseListCmd.Flags().StringVar(&exerciseOrder, "order", resource.OrderAsc, "Sort by name: asc or desc")
	exerciseListCmd.Flags().IntVar(&exercisePage, "page", 1, "Page number")
	exerciseListCmd.Flags().IntVar(&exerciseLimit, "limit", remote.DefaultLimit, "Page size")
	exerciseListCmd.Flags().BoolVar(&exerciseWatch, "watch", false, "Read filter edits from stdin and reload after each pause")

	for _, c := range []*cobra.Command{exerciseAddCmd, exerciseUpdateCmd} {
		c.Flags().StringVar(&exerciseName, "name", "", "Exercise name")
		c.Flags().StringVar(&exerciseDescription, "description", "", "Exercise description")
		c.Flags().IntVar(&exerciseCategoryID, "category", 0, "Category id")
	}
}
