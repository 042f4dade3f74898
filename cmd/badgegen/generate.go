package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	badgegen "github.com/DeutscheModelUnitedNations/badgeGenerator"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/ingest"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/render"
)

var generateFlags struct {
	input      string
	docType    string
	brand      string
	output     string
	trimBorder bool
	verify     bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one page per attendee row",
	Long: `Reads attendee rows from a JSON, YAML or CSV file and writes a PDF with one
placard or badge per row. Missing images and unsupported characters are
reported as warnings; the PDF is still written.`,
	Example: "  badgegen generate -i delegates.csv -t vertical-badge -b MUNBW -o badges.pdf --trim-border",
	RunE:    runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.input, "input", "i", "", "attendee rows (.json, .yaml or .csv)")
	f.StringVarP(&generateFlags.docType, "type", "t", string(model.Placard), "document type: placard, vertical-badge or horizontal-badge")
	f.StringVarP(&generateFlags.brand, "brand", "b", string(model.BrandDMUN), "brand: MUN-SH, MUNBW, DMUN or UN")
	f.StringVarP(&generateFlags.output, "output", "o", "", "output PDF path (default: <type>.pdf)")
	f.BoolVar(&generateFlags.trimBorder, "trim-border", false, "draw a trim guide at the page edge")
	f.BoolVar(&generateFlags.verify, "verify", false, "re-read the written PDF and check its page count")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	docType, err := model.ParseDocumentType(generateFlags.docType)
	if err != nil {
		return err
	}
	brand, err := model.ParseBrand(generateFlags.brand)
	if err != nil {
		return err
	}
	rows, err := ingest.LoadFile(generateFlags.input)
	if err != nil {
		return err
	}
	if err := ingest.Validate(rows); err != nil {
		return fmt.Errorf("%s:\n%w", generateFlags.input, err)
	}

	gen, closer, err := newGenerator()
	if err != nil {
		return err
	}
	defer closer()

	run := gen.NewRun()
	stopProgress := watchProgress(run, 100*time.Millisecond)
	pdf, err := run.Generate(cmd.Context(), badgegen.Request{
		Rows:       rows,
		Brand:      brand,
		Type:       docType,
		TrimBorder: generateFlags.trimBorder,
	})
	stopProgress()
	if err != nil {
		return err
	}

	out := generateFlags.output
	if out == "" {
		out = strings.ToLower(strings.ReplaceAll(string(docType), "_", "-")) + ".pdf"
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	if generateFlags.verify {
		pages, err := render.Verify(pdf)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", out, err)
		}
		if pages != len(rows) {
			return fmt.Errorf("verifying %s: %d pages, expected %d", out, pages, len(rows))
		}
	}

	warnings := run.Warnings()
	fmt.Fprintln(os.Stderr, styles.success.Render(fmt.Sprintf("Wrote %d pages to %s", len(rows), out)))
	printWarnings(os.Stderr, rows, warnings)
	return nil
}
