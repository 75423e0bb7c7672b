package http

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// chartPalette colours the breakdown slices in order.
var chartPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

var templateFuncs = template.FuncMap{
	"money": formatMoney,
}

// formatMoney formats m with two decimals and a thousands separator (e.g. "1,150.00").
func formatMoney(m core.Money) string {
	s := m.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseID reads the {id} path value.
func parseID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// categoryFilter reads ?category=, treating an absent value as All.
func categoryFilter(r *http.Request) string {
	f := sanitizeInput(r.URL.Query().Get("category"))
	if core.IsAllFilter(f) {
		return core.FilterAll
	}
	return f
}

func cacheKey(version int64, filter string) string {
	return strconv.FormatInt(version, 10) + "|" + filter
}

// chartSlice is one wedge of the breakdown chart.
type chartSlice struct {
	core.CategoryAmount
	Color   string
	Percent string
}

// chartSlices turns the breakdown into wedges and the conic-gradient that
// draws them.
func chartSlices(b []core.CategoryAmount) ([]chartSlice, template.CSS) {
	var total int64
	for _, c := range b {
		total += c.Amount.Cents
	}
	if total <= 0 {
		return nil, ""
	}

	slices := make([]chartSlice, 0, len(b))
	stops := make([]string, 0, len(b))
	var acc int64
	for i, c := range b {
		color := chartPalette[i%len(chartPalette)]
		start := float64(acc) * 100 / float64(total)
		acc += c.Amount.Cents
		end := float64(acc) * 100 / float64(total)
		stops = append(stops, fmt.Sprintf("%s %.2f%% %.2f%%", color, start, end))
		slices = append(slices, chartSlice{
			CategoryAmount: c,
			Color:          color,
			Percent:        fmt.Sprintf("%.1f", end-start),
		})
	}
	// Colours and numbers only, all generated above.
	return slices, template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
}

// redirectBack sends the browser to the page, keeping filter.
func redirectBack(w http.ResponseWriter, r *http.Request, filter string) {
	target := "/"
	if !core.IsAllFilter(filter) {
		target = "/?category=" + url.QueryEscape(filter)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
