package commands

import (
	"fmt"

	"github.com/de-tools/stock-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/spf13/cobra"
)

func NewListCmd(reports func() report.Service, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := reports().Get(cmd.Context(), "")
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}
			return reporter.Handle(all)
		},
	}
}
