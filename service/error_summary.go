package service

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/ludo-technologies/kuma/internal/version"
)

// WriteErrorSummary lists the errors recorded during a run. Colour is only
// emitted when w is a terminal.
func WriteErrorSummary(w io.Writer, errs []string) error {
	if len(errs) == 0 {
		return nil
	}

	plural := ""
	if len(errs) > 1 {
		plural = "s"
	}
	header := lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("1"))

	if _, err := fmt.Fprintf(w, "\n%s\n", header.Render(fmt.Sprintf("%d error%s occurred:", len(errs), plural))); err != nil {
		return err
	}
	for _, e := range errs {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Errors are usually caused by kuma bugs or misconfigured tools.\n"+
		"Please report your problems to the kuma issue tracker.\n"+
		"Mention the following information in the issue report:\n%s\n", version.GetFullVersion())
	return err
}
