package handlers

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

// Statistics returns per-category and per-tag totals for the user.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	categoryStats, err := h.store.CategoryStats(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, r, err, "Statistics not found", "Error fetching statistics")
		return
	}
	tagStats, err := h.store.TagStats(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, r, err, "Statistics not found", "Error fetching statistics")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"categoryStats": categoryStats,
		"tagStats":      tagStats,
	})
}

// Dashboard returns the dashboard summary for the user.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.writeServiceError(w, r, err, "Statistics not found", "Error fetching dashboard statistics")
		return
	}
	writeData(w, http.StatusOK, stats)
}

// StatisticsChart renders category totals as a PNG bar chart. Bars show
// absolute totals; categories that net to zero are left out.
func (h *Handlers) StatisticsChart(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.CategoryStats(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.writeServiceError(w, r, err, "Statistics not found", "Error fetching statistics")
		return
	}

	var bars []chart.Value
	var top float64
	for _, s := range stats {
		v := math.Abs(s.Total.Float64())
		if v == 0 {
			continue
		}
		top = max(top, v)
		bars = append(bars, chart.Value{Label: s.Category, Value: v})
	}
	if len(bars) == 0 {
		WriteError(w, http.StatusNotFound, "No transactions to chart")
		return
	}

	graph := chart.BarChart{
		Title: "Spending by category",
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 50,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		log := h.logFor(r)
		log.Error().Err(err).Msg("Error rendering chart")
		WriteError(w, http.StatusInternalServerError, "Error rendering chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
