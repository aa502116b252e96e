package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/byfranke/PastebinSearch/api/dto/mappers"
	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 0, 2)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Margin(1, 0)

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	riskStyles = map[domain.RiskLevel]lipgloss.Style{
		domain.RiskCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		domain.RiskHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("202")),
		domain.RiskMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.RiskUnknown:  metaStyle,
	}
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResults(w io.Writer, term string, results []domain.SearchResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, mappers.ToSearchResponse(term, results))
	}
	_, err := io.WriteString(w, renderResults(term, results))
	return err
}

// renderResults formats results for a terminal. Sentinel entries are shown as hints.
func renderResults(term string, results []domain.SearchResult) string {
	var b strings.Builder

	var found []domain.SearchResult
	var hints []domain.SearchResult
	for _, r := range results {
		if r.IsSentinel() {
			hints = append(hints, r)
		} else {
			found = append(found, r)
		}
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d results for %q", len(found), term)))
	b.WriteString("\n")

	for i, r := range found {
		b.WriteString(resultStyle.Render(renderResult(i+1, r)))
		b.WriteString("\n")
	}

	for _, h := range hints {
		b.WriteString(hintStyle.Render(h.Title))
		b.WriteString("\n")
	}

	return b.String()
}

func renderResult(n int, r domain.SearchResult) string {
	lines := []string{
		fmt.Sprintf("%d. %s", n, r.Title),
		urlStyle.Render(r.URL),
	}

	meta := []string{
		fmt.Sprintf("relevance %.2f", r.Relevance),
		string(r.Source),
		r.SyntaxHint,
	}
	if r.SizeBytes > 0 {
		meta = append(meta, formatSize(r.SizeBytes))
	}
	if !r.PublishedAt.IsZero() {
		meta = append(meta, r.PublishedAt.Format("2006-01-02 15:04"))
	}
	lines = append(lines, metaStyle.Render(strings.Join(meta, " · ")))

	if r.Scanned() {
		style, ok := riskStyles[r.RiskLevel]
		if !ok {
			style = metaStyle
		}
		lines = append(lines, style.Render("risk: "+string(r.RiskLevel)))
		for _, f := range r.SecurityFlags {
			lines = append(lines, fmt.Sprintf("  line %d [%s/%s] %s", f.LineNumber, f.Category, f.Severity, f.MatchExcerpt))
		}
	}

	return strings.Join(lines, "\n")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func printReport(w io.Writer, target string, report domain.ConnectivityReport, asJSON bool) error {
	if asJSON {
		return writeJSON(w, mappers.ToConnectivityResponse(report))
	}
	_, err := io.WriteString(w, renderReport(target, report))
	return err
}

func renderReport(target string, report domain.ConnectivityReport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Connectivity to " + target))
	b.WriteString("\n")

	if report.Reachable {
		b.WriteString(okStyle.Render("reachable"))
	} else {
		b.WriteString(errorStyle.Render("unreachable"))
	}
	fmt.Fprintf(&b, " in %.2fs\n", report.ResponseTimeSeconds())

	tls := okStyle.Render("verified")
	if !report.TLSOK {
		tls = errorStyle.Render("not verified")
	}
	b.WriteString("TLS: " + tls + "\n")

	if report.ErrorDetail != "" {
		b.WriteString(metaStyle.Render(report.ErrorDetail) + "\n")
	}
	if report.SuggestedFix != "" {
		b.WriteString(hintStyle.Render("Suggested fix: " + report.SuggestedFix))
		b.WriteString("\n")
	}
	return b.String()
}
