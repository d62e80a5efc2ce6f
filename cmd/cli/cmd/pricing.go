package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	apperrors "operator-pricing/internal/errors"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Pricelist management",
}

var pricingValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate every operator pricelist",
	Long: `Read every pricelist named by the manifest (or --pricelist flags),
apply the governance checks from the configuration and print a summary.`,
	Args: cobra.NoArgs,
	RunE: runPricingValidate,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	pricingCmd.AddCommand(pricingValidateCmd)

	pricingValidateCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "operator manifest (HCL)")
	pricingValidateCmd.Flags().StringArrayVarP(&pricelists, "pricelist", "p", nil, "operator pricelist as NAME=PATH (repeatable)")
	pricingValidateCmd.Flags().BoolVar(&strictRead, "strict", false, "fail on malformed pricelist records")
}

func runPricingValidate(cmd *cobra.Command, args []string) error {
	loaded, err := loadBook(cmd.Context(), true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATOR\tPREFIXES\tSKIPPED\tSTATUS")
	for _, v := range loaded.Validations {
		status := "ok"
		if !v.IsValid {
			status = "rejected"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", v.Operator, v.Prefixes, v.Skipped, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rejected := loaded.Rejected(); len(rejected) > 0 {
		fmt.Fprintln(out)
		for _, v := range rejected {
			for _, msg := range v.Errors {
				fmt.Fprintf(out, "✗ %s: %s\n", v.Operator, msg)
			}
		}
		return apperrors.Newf(apperrors.TypeValidation, "%d of %d pricelists rejected",
			len(rejected), len(loaded.Validations))
	}

	fmt.Fprintf(out, "\n✓ %d operators loaded in %s\n", loaded.Book.Len(), loaded.Duration.Round(time.Microsecond))
	return nil
}
