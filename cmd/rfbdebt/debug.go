package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	rfbdebt "github.com/pyhub-apps/rfbdebt-golang"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
)

func textCmd() *cobra.Command {
	var layout bool

	cmd := &cobra.Command{
		Use:   "text FILE",
		Short: "Print the text of each page as the extractor sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := rfbdebt.Open(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Document has %d pages (backend %s)\n\n", doc.PageCount(), doc.Backend())

			var all strings.Builder
			for _, page := range doc.GetPages() {
				fmt.Fprintf(out, "=== Page %d ===\n", page.GetPageNumber())
				fmt.Fprintf(out, "Size: %.2f x %.2f\n", page.GetWidth(), page.GetHeight())

				objects := page.GetObjects()
				fmt.Fprintf(out, "Characters: %d  Lines: %d  Rectangles: %d\n\n",
					len(objects.Chars), len(objects.Lines), len(objects.Rects))

				text := page.ExtractText(rfbdebt.WithLayout(layout))
				if text == "" {
					fmt.Fprintln(out, "No text found on this page")
				} else {
					fmt.Fprintln(out, text)
				}
				fmt.Fprintln(out)

				all.WriteString(page.ExtractText())
				all.WriteString("\n")
			}

			h := extract.ParseHeader(all.String())
			fmt.Fprintf(out, "Municipality: %s\nCNPJ: %s\nDossier: %s\nTotal: %s\n",
				h.Municipality, h.CNPJ, h.Dossier, h.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&layout, "layout", false, "keep column positions")
	return cmd
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables FILE",
		Short: "Print the tables found on each page and whether they look like debt tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := rfbdebt.Open(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			out := cmd.OutOrStdout()
			for _, page := range doc.GetPages() {
				fmt.Fprintf(out, "=== Page %d ===\n", page.GetPageNumber())

				tables := page.ExtractTables()
				if len(tables) == 0 {
					fmt.Fprintln(out, "  No tables found")
					continue
				}
				for i, table := range tables {
					fmt.Fprintf(out, "\n  Table %d: %d rows x %d columns, accepted=%v\n",
						i+1, len(table.Rows), maxColumns(table.Rows), extract.AcceptTable(table.Rows))
					fmt.Fprintf(out, "  BBox: (%.2f, %.2f) to (%.2f, %.2f)\n",
						table.BBox.X0, table.BBox.Y0, table.BBox.X1, table.BBox.Y1)
					printTable(out, table.Rows)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func maxColumns(rows [][]string) int {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	return cols
}

// printTable prints rows with columns padded to their widest cell
func printTable(w io.Writer, rows [][]string) {
	widths := make([]int, maxColumns(rows))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	for i, row := range rows {
		fmt.Fprint(w, "    |")
		for j, cell := range row {
			fmt.Fprintf(w, " %-*s |", widths[j], cell)
		}
		fmt.Fprintln(w)
		if i == 0 {
			fmt.Fprint(w, "    |")
			for _, width := range widths {
				fmt.Fprintf(w, "%s|", strings.Repeat("-", width+2))
			}
			fmt.Fprintln(w)
		}
	}
}
