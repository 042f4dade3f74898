package main

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"golang.org/x/term"

	badgegen "github.com/DeutscheModelUnitedNations/badgeGenerator"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
)

// Output goes to stderr so stdout stays free for the MCP transport.
var styles = newStyles(os.Stderr)

type outputStyles struct {
	renderer  *lipgloss.Renderer
	success   lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	heading   lipgloss.Style
	info      lipgloss.Style
	bar       lipgloss.Style
}

func newStyles(w io.Writer) outputStyles {
	r := lipgloss.NewRenderer(w)
	return outputStyles{
		renderer:  r,
		success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		errorText: r.NewStyle().Foreground(lipgloss.Color("9")),
		heading:   r.NewStyle().Bold(true),
		info:      r.NewStyle().Foreground(lipgloss.Color("8")),
		bar:       r.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width == 0 {
		return 80
	}
	return width
}

// progressLine renders "[#####     ] 12/40 30%" fitted to width.
func progressLine(p report.Snapshot, width int) string {
	label := fmt.Sprintf(" %s %3d%%", p, p.Percent())
	barWidth := lo.Clamp(width-len(label)-2, 10, 50)
	filled := barWidth * p.Percent() / 100
	return "[" + styles.bar.Render(strings.Repeat("#", filled)) + strings.Repeat(" ", barWidth-filled) + "]" + label
}

// watchProgress redraws the progress of run on stderr until the returned
// function is called. It does nothing when stderr is not a terminal.
func watchProgress(run *badgegen.Run, every time.Duration) func() {
	if !isInteractive() {
		return func() {}
	}
	width := terminalWidth()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				fmt.Fprintf(os.Stderr, "\r%s\n", progressLine(run.Progress(), width))
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s", progressLine(run.Progress(), width))
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

// printWarnings lists warnings grouped by the row they belong to, in row
// order. Warnings without a row index are listed last.
func printWarnings(w io.Writer, rows []model.Row, warnings []report.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, styles.warning.Render(fmt.Sprintf("%d warnings", len(warnings))))

	groups := lo.GroupBy(warnings, func(wn report.Warning) string {
		if len(wn.Path) == 0 {
			return ""
		}
		return wn.Path[0]
	})
	keys := lo.Keys(groups)
	order := func(k string) int {
		i, err := strconv.Atoi(k)
		if err != nil {
			return len(rows)
		}
		return i
	}
	slices.SortFunc(keys, func(a, b string) int { return cmp.Compare(order(a), order(b)) })

	for _, k := range keys {
		fmt.Fprintln(w, styles.heading.Render(rowLabel(rows, k)))
		for _, wn := range groups[k] {
			field := ""
			if len(wn.Path) > 1 {
				field = strings.Join(wn.Path[1:], ".") + ": "
			}
			line := fmt.Sprintf("  %s %s%s", styles.warning.Render(string(wn.Type)), field, wn.Message)
			if wn.Details != "" {
				line += " " + styles.info.Render("("+wn.Details+")")
			}
			fmt.Fprintln(w, line)
		}
	}
}

func rowLabel(rows []model.Row, key string) string {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(rows) {
		return "general"
	}
	return fmt.Sprintf("row %d: %s", i+1, rows[i].Name)
}
