package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"operator-pricing/core/output"
	"operator-pricing/core/pricebook"
	"operator-pricing/internal/config"
	"operator-pricing/internal/logging"
)

var (
	outputFormat string
	showQuotes   bool
)

var cheapestCmd = &cobra.Command{
	Use:   "cheapest <number>...",
	Short: "Find the cheapest operator for one or more numbers",
	Long: `Load the operators' pricelists and report, for each number, every
operator tied at the lowest price. A number no operator can carry is
reported as "no operator"; that is not an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheapest,
}

func init() {
	rootCmd.AddCommand(cheapestCmd)

	cheapestCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "operator manifest (HCL)")
	cheapestCmd.Flags().StringArrayVarP(&pricelists, "pricelist", "p", nil, "operator pricelist as NAME=PATH (repeatable, overrides --manifest)")
	cheapestCmd.Flags().BoolVar(&strictRead, "strict", false, "fail on malformed pricelist records")
	cheapestCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	cheapestCmd.Flags().BoolVar(&showQuotes, "quotes", false, "list every matching operator")
}

func runCheapest(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.NewFormatter(format, output.Options{
		ShowQuotes: showQuotes || cfg.Output.ShowQuotes,
	})
	if err != nil {
		return err
	}

	loaded, err := loadBook(cmd.Context(), false)
	if err != nil {
		return err
	}

	results := make([]*pricebook.Result, 0, len(args))
	for _, raw := range args {
		res := loaded.Book.Lookup(raw)
		logging.Debug("lookup",
			zap.String("input", raw),
			zap.String("number", res.Number),
			zap.Int("matches", len(res.Quotes)))
		results = append(results, res)
	}

	return formatter.Render(cmd.OutOrStdout(), results)
}
