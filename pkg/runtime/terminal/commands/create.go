package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/spf13/cobra"
)

type CreateCmd struct {
	stock    string
	start    string
	end      string
	timeout  time.Duration
	reports  func() report.Service
	reporter *export.Reporter
}

// NewCreateCmd takes the service lazily since it is only opened once the
// root command has parsed its flags.
func NewCreateCmd(reports func() report.Service, reporter *export.Reporter) *cobra.Command {
	cc := &CreateCmd{reports: reports, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Fetch a daily series and store it as a new report",
		Args:  cobra.NoArgs,
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.stock, "stock", "", "Ticker symbol (e.g., AVGO)")
	cmd.Flags().StringVar(&cc.start, "start", "", "First day of the range, YYYY-MM-DD")
	cmd.Flags().StringVar(&cc.end, "end", "", "Last day of the range, YYYY-MM-DD")
	cmd.Flags().DurationVar(&cc.timeout, "timeout", 60*time.Second, "Upper bound for fetching and storing")

	_ = cmd.MarkFlagRequired("stock")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (cc *CreateCmd) run(cmd *cobra.Command, _ []string) error {
	req, err := domain.ParseTimeRange(cc.stock, cc.start, cc.end)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cc.timeout)
	defer cancel()

	created, err := cc.reports().Create(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create report for %s: %w", req.Symbol, err)
	}

	return cc.reporter.Handle(created)
}
