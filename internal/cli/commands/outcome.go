package commands

import (
	"fmt"
	"io"
	"strings"

	"formAgent/internal/agent"
	"formAgent/internal/cli/ui"
)

// printOutcome выводит журнал заполнения и найденные ставки.
func printOutcome(w io.Writer, out *agent.Outcome) {
	if out == nil || out.Report == nil {
		return
	}
	lines := strings.Split(out.Report.String(), "\n")
	fmt.Fprintln(w, ui.Paint(ui.ColorBold, ui.IconForm+" "+lines[0]))
	for _, line := range lines[1:] {
		if line != "" {
			fmt.Fprintln(w, "  "+ui.ReportLine(line))
		}
	}

	if out.Rates != nil && out.Rates.Found() {
		fmt.Fprintln(w, ui.Paint(ui.ColorCyan, ui.IconChart+" Ставки:")+" "+out.Rates.Summary())
	}
	fmt.Fprintln(w, ui.Paint(ui.ColorGray, "run "+out.RunID))

	if out.Report.Succeeded() {
		ui.Success(w, "Отправлено форм: %d", out.Report.FormsSubmitted)
	} else {
		ui.Error(w, "Ни одна форма не отправлена")
	}
}
