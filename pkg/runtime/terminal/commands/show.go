package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/stock-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/spf13/cobra"
)

func NewShowCmd(reports func() report.Service, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "show UUID",
		Short: "Show a single report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("report uuid must not be empty")
			}
			found, err := reports().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to read report: %w", err)
			}
			if len(found) == 0 {
				return fmt.Errorf("report %q not found", args[0])
			}
			return reporter.Handle(found)
		},
	}
}
