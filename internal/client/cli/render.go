package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dustin/go-humanize"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func capital(v float64) string {
	return humanize.Commaf(v)
}

func location(p *models.Point) string {
	if p == nil || p.IsZero() {
		return "-"
	}
	return p.String()
}

func renderCompanies(w io.Writer, page models.Page[models.Company], withOwner bool) {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "No companies found.")
		return
	}

	header := []string{"ID", "NAME", "SERVICE", "CAPITAL", "LOCATION"}
	if withOwner {
		header = append(header, "OWNER")
	}
	tw := newTable(w, header...)
	for _, c := range page.Data {
		cols := []string{fmt.Sprint(c.ID), c.Name, orDash(c.Service), capital(c.Capital), location(c.Location)}
		if withOwner {
			owner := "-"
			if c.Owner != nil {
				owner = c.Owner.Email
			}
			cols = append(cols, owner)
		}
		row(tw, cols...)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Page %d of %d (%d total)\n", max(page.Page, 1), page.Pages(), page.Total)
}

func renderCompany(w io.Writer, c *models.Company) {
	fmt.Fprintf(w, "Company #%d\n", c.ID)
	fmt.Fprintf(w, "  Name:     %s\n", c.Name)
	fmt.Fprintf(w, "  Service:  %s\n", orDash(c.Service))
	fmt.Fprintf(w, "  Capital:  %s\n", capital(c.Capital))
	fmt.Fprintf(w, "  Location: %s\n", location(c.Location))
	fmt.Fprintf(w, "  Logo:     %s\n", orDash(c.LogoURL))
	if c.Owner != nil {
		fmt.Fprintf(w, "  Owner:    %s\n", c.Owner.Email)
	}
}

func renderHistory(w io.Writer, actions []models.HistoryAction, withUser bool) {
	if len(actions) == 0 {
		fmt.Fprintln(w, "No actions recorded.")
		return
	}

	header := []string{"WHEN", "ACTION", "TARGET", "DETAILS"}
	if withUser {
		header = append([]string{"WHEN", "USER"}, header[1:]...)
	}
	tw := newTable(w, header...)
	for _, h := range actions {
		when := "-"
		if !h.Timestamp.IsZero() {
			when = humanize.Time(h.Timestamp)
		}
		target := fmt.Sprintf("%s #%d", h.TargetType, h.TargetID)
		cols := []string{when, h.ActionType, target, details(h.ActionDetails)}
		if withUser {
			user := "-"
			if h.User != nil {
				user = h.User.Email
			}
			cols = append([]string{when, user}, cols[1:]...)
		}
		row(tw, cols...)
	}
	_ = tw.Flush()
}

// details renders action details as sorted key=value pairs.
func details(m map[string]any) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := json.Marshal(m[k])
		if err != nil {
			v = []byte(fmt.Sprint(m[k]))
		}
		parts = append(parts, k+"="+string(v))
	}
	return strings.Join(parts, " ")
}
