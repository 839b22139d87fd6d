package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"DealHunter/internal/domain"
	"DealHunter/internal/infrastructure/alert"
	"DealHunter/internal/usecase"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func price(v *float64) string {
	if v == nil {
		return "-"
	}
	return alert.FormatPrice(*v)
}

func renderReport(w io.Writer, report usecase.RunReport) {
	t := newTable(w)
	t.SetTitle("run %s", report.RunID)
	t.AppendHeader(table.Row{"Item", "Status", "Price", "Prior", "Alerts", "Detail"})

	for _, res := range report.Results {
		conditions := make([]string, 0, len(res.Conditions))
		for _, c := range res.Conditions {
			conditions = append(conditions, string(c))
		}
		t.AppendRow(table.Row{
			res.Item.DisplayName(),
			res.Reading.Status,
			price(res.Reading.Price),
			price(res.Prior),
			strings.Join(conditions, ", "),
			res.Reading.Detail,
		})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("%d items", len(report.Results)),
		fmt.Sprintf("%d in stock", report.Count(domain.StatusInStock)),
		"",
		"",
		fmt.Sprintf("%d alerts", report.Alerts),
		report.Duration().Round(time.Millisecond).String(),
	})
	t.Render()
}

func renderItems(w io.Writer, items []domain.TrackedItem, defaultRetriever string) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Target", "Selector", "Stock keyword", "Retriever", "URL"})

	for _, item := range items {
		retriever := item.Retriever
		if retriever == "" {
			retriever = defaultRetriever
		}
		t.AppendRow(table.Row{
			item.ID,
			item.Name,
			price(item.TargetPrice),
			item.PriceSelector,
			item.StockKeyword,
			retriever,
			item.URL,
		})
	}
	t.Render()
}

// renderState lists persisted prices, flagging IDs that are no longer configured.
func renderState(w io.Writer, state domain.PriceState, items []domain.TrackedItem) {
	configured := make(map[string]bool, len(items))
	for _, item := range items {
		configured[item.ID] = true
	}

	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Last price", "Configured"})
	for _, id := range ids {
		t.AppendRow(table.Row{id, alert.FormatPrice(state[id]), configured[id]})
	}
	t.Render()
}
