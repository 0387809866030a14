package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	rfbdebt "github.com/pyhub-apps/rfbdebt-golang"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/report"
)

func extractCmd() *cobra.Command {
	var (
		output        string
		asCSV         bool
		letters       string
		addressee     string
		ocrEnabled    bool
		forceOCR      bool
		workers       int
		minCaseDigits int
	)

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract debt lines from statements into a spreadsheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("ocr") {
				cfg.OCREnabled = ocrEnabled
			}
			if cmd.Flags().Changed("force-ocr") {
				cfg.OCRForce = forceOCR
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("min-case-digits") {
				cfg.MinCaseDigits = minCaseDigits
			}
			if cmd.Flags().Changed("addressee") {
				cfg.Addressee = addressee
			}

			uploads, err := rfbdebt.ReadUploads(args...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p := rfbdebt.NewPipeline(cfg, log)
			defer p.Close()

			res := rfbdebt.NewProcessor(p, cfg, log).Run(ctx, uploads, func(done, total int, filename string) {
				log.WithField("file", filename).Infof("processed %d/%d", done, total)
			})
			for _, w := range res.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			if err := res.Err(); err != nil {
				return err
			}

			rows := report.Flatten(res.Records)
			if asCSV {
				if err := writeTo(output, cmd.OutOrStdout(), func(w io.Writer) error { return report.WriteCSV(w, rows) }); err != nil {
					return err
				}
			} else {
				if output == "" || output == "-" {
					output = "saldos.xlsx"
				}
				if err := writeTo(output, nil, func(w io.Writer) error { return report.WriteXLSX(w, rows) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), output)
			}

			if letters != "" {
				err := writeTo(letters, nil, func(w io.Writer) error {
					return report.WriteLettersZip(w, res.Records, cfg.Addressee, time.Now())
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d letters to %s\n", len(res.Records), letters)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default saldos.xlsx, or stdout with --csv)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a spreadsheet")
	cmd.Flags().StringVar(&letters, "letters", "", "also write one letter per statement into this zip")
	cmd.Flags().StringVar(&addressee, "addressee", "", "addressee printed on the letters")
	cmd.Flags().BoolVar(&ocrEnabled, "ocr", true, "allow OCR for scanned statements")
	cmd.Flags().BoolVar(&forceOCR, "force-ocr", false, "run OCR before native text extraction")
	cmd.Flags().IntVar(&workers, "workers", 1, "documents processed in parallel")
	cmd.Flags().IntVar(&minCaseDigits, "min-case-digits", 7, "shortest digit run accepted as a case number")

	return cmd
}

// writeTo writes to path, or to fallback when path is empty or "-"
func writeTo(path string, fallback io.Writer, write func(io.Writer) error) error {
	if (path == "" || path == "-") && fallback != nil {
		return write(fallback)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
