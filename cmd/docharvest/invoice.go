package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docharvest/pkg/auth"
	"docharvest/pkg/cache"
	"docharvest/pkg/config"
	"docharvest/pkg/export"
	"docharvest/pkg/invoice"
	"docharvest/pkg/ratelimit"
	"docharvest/pkg/retry"
	"docharvest/pkg/storage"
	"docharvest/pkg/textract"
	"docharvest/pkg/ui"
)

var (
	// Invoice command flags
	invoicePages    int
	invoiceFromJSON string
	invoiceXLSX     string
	invoiceAccount  string
	invoiceRegion   string
	invoiceAliases  string
	invoiceNoCache  bool
	invoiceOutput   string
)

// invoiceCmd represents the invoice command
var invoiceCmd = &cobra.Command{
	Use:   "invoice [file_pattern]",
	Short: "Extract a structured invoice from scanned pages",
	Long: `Analyze every page of a scanned invoice with Amazon Textract and merge the
results into a single invoice record: number, dates, supplier, total,
currency and line items.

The file pattern names one image per page; {i} is replaced by the page
number starting at 1. Pages are analyzed in order and a later page overrides
fields found on an earlier one.

Responses are cached by content, so re-running on the same files costs
nothing. With --from-json, previously saved Textract responses are replayed
instead and no credentials are needed.

If any page cannot be fetched the run fails and nothing is written.`,
	Example: `  # Two pages named invoice_page_1.png and invoice_page_2.png
  docharvest invoice

  # Three scanned pages with a custom name
  docharvest invoice "scans/acme_{i}.jpg" --pages 3

  # Replay saved responses page_1.json, page_2.json
  docharvest invoice --from-json

  # Use a stored account and also write a spreadsheet
  docharvest invoice --account work --xlsx invoice.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvoice,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	invoiceCmd.Flags().IntVar(&invoicePages, "pages", 0, "number of pages (default 2)")
	invoiceCmd.Flags().StringVar(&invoiceFromJSON, "from-json", "", "replay saved Textract responses matching this pattern instead of calling the service")
	invoiceCmd.Flags().Lookup("from-json").NoOptDefVal = textract.DefaultJSONPattern
	invoiceCmd.Flags().StringVar(&invoiceXLSX, "xlsx", "", "also write the invoice to this XLSX file")
	invoiceCmd.Flags().StringVarP(&invoiceAccount, "account", "a", "", "stored AWS account to use")
	invoiceCmd.Flags().StringVar(&invoiceRegion, "region", "", "AWS region (default us-east-1)")
	invoiceCmd.Flags().StringVar(&invoiceAliases, "aliases", "", "YAML file overriding field labels and column names")
	invoiceCmd.Flags().BoolVar(&invoiceNoCache, "no-cache", false, "always call the service, ignoring cached responses")
	invoiceCmd.Flags().StringVarP(&invoiceOutput, "output", "o", "", "output directory")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{
		"pages":    invoicePages,
		"xlsx":     invoiceXLSX,
		"account":  invoiceAccount,
		"region":   invoiceRegion,
		"aliases":  invoiceAliases,
		"no-cache": invoiceNoCache,
		"output":   invoiceOutput,
	}
	if len(args) > 0 {
		flags["pattern"] = args[0]
	}

	r, err := startRun("invoice", flags)
	if err != nil {
		return err
	}
	defer r.Close()

	cfg := r.cfg
	ctx := cmd.Context()

	aliases := invoice.DefaultAliases()
	if cfg.Invoice.AliasFile != "" {
		aliases, err = invoice.LoadAliases(cfg.Invoice.AliasFile)
		if err != nil {
			return err
		}
	}

	progress := r.progress("invoice", cfg.Invoice.PageCount)

	var source invoice.PageSource
	if invoiceFromJSON != "" {
		ui.PrintInfo("Responses", invoiceFromJSON)
		source = textract.NewJSONSource(invoiceFromJSON)
	} else {
		ui.PrintInfo("Pages", fmt.Sprintf("%s × %d", cfg.Invoice.FilePattern, cfg.Invoice.PageCount))
		source, err = newFileSource(ctx, r)
		if err != nil {
			return err
		}
	}

	parser := invoice.NewParser(source,
		invoice.WithAliases(aliases),
		invoice.WithEvents(r.events),
		invoice.WithLogger(r.log),
	)

	res, err := parser.Parse(ctx, cfg.Invoice.PageCount)
	if err != nil {
		r.log.WithError(err).Error("Invoice parsing failed")
		r.notifier().SendError("Invoice failed", err.Error())
		return err
	}

	if cfg.Invoice.ValidateSchema {
		if err := invoice.ValidateRecord(res.Record); err != nil {
			return err
		}
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return err
	}
	store.WithEvents(r.events)

	path, err := store.SaveJSON(cfg.Output.InvoiceFile, res.Record)
	if err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}

	if cfg.Output.XLSXFile != "" {
		data, err := export.InvoiceXLSX(res.Record)
		if err != nil {
			return err
		}
		if _, err := store.WriteFile(cfg.Output.XLSXFile, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("save spreadsheet: %w", err)
		}
	}

	summary := fmt.Sprintf("invoice %s with %d line items saved to %s",
		orDash(invoice.Value(res.Record.InvoiceNumber)), len(res.Record.LineItems), path)
	if progress != nil {
		progress.Complete(summary)
	}
	r.notifier().SendSuccess("Invoice parsed", summary)
	return nil
}

// newFileSource wires the Textract client, rate limiter, retry policy and
// response cache for live analysis
func newFileSource(ctx context.Context, r *run) (*textract.FileSource, error) {
	cfg := r.cfg

	account, err := resolveAccount(cfg)
	if err != nil {
		return nil, err
	}
	api, err := textract.NewAWSAPI(ctx, cfg.Textract.Region, account)
	if err != nil {
		return nil, err
	}

	client := textract.NewClient(api,
		textract.WithFeatureTypes(cfg.Textract.FeatureTypes),
		textract.WithLimiter(ratelimit.NewTokenBucket(cfg.Textract.RequestsPerSecond, cfg.Textract.Burst)),
		textract.WithRetry(retry.FromConfig(cfg.Retry, r.log)),
		textract.WithLogger(r.log),
	)

	var responses *cache.Store
	if cfg.Textract.CacheResponses {
		responses, err = cache.NewStore(cfg.Textract.CacheDir)
		if err != nil {
			r.log.WithError(err).Warn("Response cache unavailable")
			responses = nil
		}
	}

	return textract.NewFileSource(client, cfg.Invoice.FilePattern, responses).WithEvents(r.events), nil
}

// resolveAccount picks credentials from configuration, then the credential
// stores. No account at all falls back to the default AWS chain.
func resolveAccount(cfg *config.Config) (*auth.Account, error) {
	if cfg.Textract.AccessKeyID != "" {
		return &auth.Account{
			Name:            "config",
			AccessKeyID:     cfg.Textract.AccessKeyID,
			SecretAccessKey: cfg.Textract.SecretAccessKey,
		}, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return nil, err
	}
	account, err := manager.Resolve(cfg.Textract.Account)
	if errors.Is(err, auth.ErrCredentialsNotFound) && cfg.Textract.Account == "" {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", cfg.Textract.Account, err)
	}
	return account, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
