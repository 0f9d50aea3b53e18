package resource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/remote"
)

type Nutrition struct {
	list *remote.Collection[model.NutritionEntry, string]
}

func NewNutrition(client *api.Client, opts Options) *Nutrition {
	fetch := func(ctx context.Context, date string) (remote.Page[model.NutritionEntry], error) {
		items, err := client.DailyNutrition(ctx, date)
		return remote.Page[model.NutritionEntry]{Items: items, Total: len(items)}, err
	}
	return &Nutrition{
		list: remote.New("nutrition", fetch, opts.collection("failed to load nutrition", true)...),
	}
}

// SetDate loads the entries for date (YYYY-MM-DD); an empty date means today.
func (n *Nutrition) SetDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		date = time.Now().Format(api.DateLayout)
	}
	if _, err := time.Parse(api.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return n.list.Fetch(ctx, date)
}

func (n *Nutrition) Date() string {
	return n.list.Query()
}

func (n *Nutrition) Snapshot() remote.Snapshot[model.NutritionEntry] {
	return n.list.Snapshot()
}

type Totals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

func (n *Nutrition) Totals() Totals {
	var t Totals
	for _, e := range n.list.Snapshot().Items {
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fat += e.Fat
	}
	return t
}
