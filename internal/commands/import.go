package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/envelope-dev/envelope/internal/auditlog"
	"github.com/envelope-dev/envelope/internal/importer"
	"github.com/envelope-dev/envelope/internal/model"
)

func newImportCommand() *cobra.Command {
	var (
		account  string
		preset   string
		accept   bool
		category string
		dateCol, descCol, debitCol, creditCol, amountCol, notesCol string
	)

	cmd := &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Import a bank statement into an account",
		Long: "Reads a statement CSV and converts its rows into transactions.\n" +
			"Without --accept or explicit column flags, the inferred column mapping\n" +
			"is printed as a suggestion and nothing is imported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			headers, rows, err := importer.LoadStatement(f)
			f.Close()
			if err != nil {
				return err
			}
			if len(headers) == 0 {
				return fmt.Errorf("statement %s is empty", args[0])
			}

			mapping, confirmed, err := buildMapping(headers, preset, accept, mappingOverrides{
				date: dateCol, desc: descCol, debit: debitCol, credit: creditCol,
				amount: amountCol, notes: notesCol,
			})
			if err != nil {
				return err
			}
			if !confirmed {
				printSuggestion(mapping)
				return nil
			}

			rec := importer.NewReconciler(ws.ledger, importer.Options{
				DateFormats: ws.cfg.Import.DateFormats,
				DefaultKind: model.TransactionKind(ws.cfg.Import.UnsignedKind),
				CategoryID:  category,
			})
			result, err := rec.Import(headers, rows, account, mapping)
			if err != nil {
				return err
			}
			ws.ledger.CheckInvariant()
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			if err := auditlog.Append(ws.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Op:        "import",
				Details:   fmt.Sprintf("%d imported, %d failed", result.SuccessCount, result.FailureCount),
				Ref:       filepath.Base(args[0]),
			}); err != nil {
				return err
			}

			fmt.Printf("Imported %d rows, %d failed\n", result.SuccessCount, result.FailureCount)
			for _, msg := range result.Messages() {
				fmt.Println("  " + msg)
			}

			// Statements dropped into <dir>/import/ get filed away once imported.
			if filepath.Dir(args[0]) == filepath.Join(ws.dir, "import") {
				if err := importer.MarkProcessed(ws.dir, filepath.Base(args[0])); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "target account ID (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&preset, "preset", "", "bank preset name (e.g. chase)")
	cmd.Flags().BoolVar(&accept, "accept", false, "accept the inferred column mapping")
	cmd.Flags().StringVar(&category, "category", "", "category ID for imported transactions")
	cmd.Flags().StringVar(&dateCol, "date-col", "", "header of the date column")
	cmd.Flags().StringVar(&descCol, "desc-col", "", "header of the description column")
	cmd.Flags().StringVar(&debitCol, "debit-col", "", "header of the debit column")
	cmd.Flags().StringVar(&creditCol, "credit-col", "", "header of the credit column")
	cmd.Flags().StringVar(&amountCol, "amount-col", "", "header of the amount column")
	cmd.Flags().StringVar(&notesCol, "notes-col", "", "header of the notes column")
	return cmd
}

type mappingOverrides struct {
	date, desc, debit, credit, amount, notes string
}

func (o mappingOverrides) any() bool {
	return o.date != "" || o.desc != "" || o.debit != "" || o.credit != "" || o.amount != "" || o.notes != ""
}

// buildMapping resolves the column mapping from, in priority order: explicit
// column flags, a named preset, or inference. Inference alone is a suggestion
// and is only used when the caller confirmed it with --accept.
func buildMapping(headers []string, preset string, accept bool, o mappingOverrides) (importer.Mapping, bool, error) {
	var m importer.Mapping
	confirmed := false

	switch {
	case preset != "":
		p, ok := importer.DefaultRegistry().Get(preset)
		if !ok {
			return importer.Mapping{}, false, fmt.Errorf("unknown preset %q (have: %v)", preset, importer.DefaultRegistry().Names())
		}
		m = p.Mapping
		confirmed = true
	default:
		m = importer.InferMapping(headers)
		confirmed = accept
	}

	if o.any() {
		confirmed = true
		if o.date != "" {
			m.Date = o.date
		}
		if o.desc != "" {
			m.Description = o.desc
		}
		if o.debit != "" {
			m.Debit = o.debit
		}
		if o.credit != "" {
			m.Credit = o.credit
		}
		if o.amount != "" {
			m.Amount = o.amount
		}
		if o.notes != "" {
			m.Notes = o.notes
		}
	}
	return m, confirmed, nil
}

func printSuggestion(m importer.Mapping) {
	fmt.Println("Suggested column mapping (re-run with --accept to use it,")
	fmt.Println("or override with --date-col/--desc-col/--debit-col/--credit-col/--amount-col/--notes-col):")
	show := func(role, header string) {
		if header == "" {
			header = "(unmapped)"
		}
		fmt.Printf("  %-12s %s\n", role, header)
	}
	show("date", m.Date)
	show("description", m.Description)
	show("debit", m.Debit)
	show("credit", m.Credit)
	show("amount", m.Amount)
	show("notes", m.Notes)
}
