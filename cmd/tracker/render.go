package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/services"
	dashboardUC "github.com/fastygo/teamtracker/usecase/dashboard"
)

func renderLeaderboard(w io.Writer, board *domain.Leaderboard) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Rank", "User", "Points", "Badges", "Progress"})
	for _, e := range board.Entries {
		badges := make([]string, 0, len(e.Badges))
		for _, b := range e.Badges {
			badges = append(badges, string(b))
		}
		tw.AppendRow(table.Row{e.Rank, e.User, e.TotalPoints, strings.Join(badges, ", "), fmt.Sprintf("%.0f%%", e.Progress*100)})
	}
	tw.Render()
	if len(board.Rejected) > 0 {
		fmt.Fprintln(w, "rejected malformed tasks:", strings.Join(board.Rejected, ", "))
	}
}

func renderProgress(w io.Writer, view *dashboardUC.ProgressView) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Period", "User", "Points"})
	for _, p := range view.Points {
		tw.AppendRow(table.Row{p.Period, p.User, p.Points})
	}
	tw.Render()
	for _, issue := range view.Issues {
		fmt.Fprintln(w, "skipped:", issue)
	}
}

func renderReport(w io.Writer, report *services.DispatchReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"User", "Result", "Detail"})
	for _, name := range report.Sent {
		tw.AppendRow(table.Row{name, "sent", ""})
	}
	for _, name := range report.Skipped {
		tw.AppendRow(table.Row{name, "skipped", "already added a task today"})
	}
	for _, f := range report.Failed {
		tw.AppendRow(table.Row{f.User, "failed", f.Error})
	}
	tw.Render()
}
