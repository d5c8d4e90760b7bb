package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
)

// printStatus writes the four status rows of a snapshot.
func printStatus(w io.Writer, snap models.StatusSnapshot, polled time.Time) {
	fmt.Fprint(w, "System Status")
	if !polled.IsZero() {
		fmt.Fprintf(w, " (%s)", polled.Format("15:04:05"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════")
	fmt.Fprintf(w, "  %-14s %s\n", "Application:", snap.App.Label())
	fmt.Fprintf(w, "  %-14s %s\n", "Telegram Bot:", snap.TelegramBot.Label())
	fmt.Fprintf(w, "  %-14s %s\n", "OpenAI API:", snap.OpenAI.Label())
	fmt.Fprintf(w, "  %-14s %s\n", "Database:", snap.Database.Label())
}

// printMessage writes a controller message with a success or error marker.
func printMessage(w io.Writer, msg models.Message) {
	switch msg.Kind {
	case models.MessageSuccess:
		fmt.Fprintf(w, "✓ %s\n", msg.Text)
	case models.MessageError:
		fmt.Fprintf(w, "✗ %s\n", msg.Text)
	default:
		if msg.Text != "" {
			fmt.Fprintln(w, msg.Text)
		}
	}
}

func printDatasets(w io.Writer, datasets []models.Dataset) {
	if len(datasets) == 0 {
		fmt.Fprintln(w, "No datasets found")
		return
	}

	fmt.Fprintf(w, "%-38s %-24s %-12s %s\n", "ID", "NAME", "STATUS", "UPLOADED")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, ds := range datasets {
		uploaded := ""
		if !ds.UploadDate.IsZero() {
			uploaded = ds.UploadDate.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-38s %-24s %-12s %s\n", ds.ID, truncate(ds.Name, 24), ds.Status.Label(), uploaded)
	}
}

func printSearchResults(w io.Writer, results models.SearchResults) {
	if results == nil {
		fmt.Fprintln(w, dashboard.MsgNoResults)
		return
	}
	if results.Empty() {
		fmt.Fprintln(w, dashboard.NoResultsText(results.Mode()))
		return
	}

	switch r := results.(type) {
	case models.WebResults:
		for i, hit := range r.Hits {
			fmt.Fprintf(w, "%d. %s\n", i+1, hit.Title)
			if hit.Href != "" {
				fmt.Fprintf(w, "   %s\n", hit.Href)
			}
			if hit.Body != "" {
				fmt.Fprintf(w, "   %s\n", truncate(hit.Body, 200))
			}
		}
	case models.PersonResults:
		p := r.Person
		fmt.Fprintf(w, "Person: %s\n", p.Name)
		if len(p.SocialProfiles) > 0 {
			fmt.Fprintln(w, "\nSocial Profiles:")
			for _, sp := range p.SocialProfiles {
				fmt.Fprintf(w, "  - %s: %s\n", sp.Title, sp.Href)
			}
		}
		if len(p.ProfessionalInfo) > 0 {
			fmt.Fprintln(w, "\nProfessional Information:")
			for _, info := range p.ProfessionalInfo {
				fmt.Fprintf(w, "  - %s\n", info.Title)
				if info.Body != "" {
					fmt.Fprintf(w, "    %s\n", truncate(info.Body, 200))
				}
			}
		}
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
