package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	badgegen "github.com/DeutscheModelUnitedNations/badgeGenerator"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/ingest"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/render"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
)

// Service backs the tools and resources with one generator and the run
// handle of the most recent generation.
type Service struct {
	gen *badgegen.Generator
	now func() time.Time

	mu   sync.Mutex
	last *badgegen.Run
}

// NewService returns a service generating with gen.
func NewService(gen *badgegen.Generator) *Service {
	return &Service{gen: gen, now: time.Now}
}

func (svc *Service) lastRun() *badgegen.Run {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.last
}

// Register adds the badge tools and resources to s.
func (svc *Service) Register(s *Server) {
	s.AddTool(svc.generateTool())
	s.AddTool(svc.statusTool())
	s.AddTool(svc.listBrandsTool())
	svc.registerResources(s)
}

func (svc *Service) generateTool() Tool {
	return Tool{
		Name:        "generate_documents",
		Description: "Generate a PDF with one placard or badge per attendee row. Rows come either inline or from a JSON, YAML or CSV file. Returns a summary with any warnings, and the PDF as base64 unless outputPath is given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"rows": map[string]interface{}{
					"type":        "array",
					"description": "Attendee rows: name, committee, countryName, countryAlpha2Code or alternativeImage, pronouns, id, mediaConsentStatus",
					"items":       map[string]interface{}{"type": "object"},
				},
				"inputPath": map[string]interface{}{
					"type":        "string",
					"description": "Path of a .json, .yaml or .csv file with the rows, used when rows is omitted",
				},
				"brand": map[string]interface{}{
					"type": "string",
					"enum": model.Brands(),
				},
				"documentType": map[string]interface{}{
					"type": "string",
					"enum": model.DocumentTypes(),
				},
				"trimBorder": map[string]interface{}{
					"type":        "boolean",
					"description": "Draw a thin trim guide at the page edge",
				},
				"verify": map[string]interface{}{
					"type":        "boolean",
					"description": "Re-read the generated PDF and check its page count",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"brand", "documentType"},
		},
		Handler: svc.handleGenerate,
	}
}

func rowsFromArgs(args map[string]interface{}) ([]model.Row, error) {
	if raw, ok := args["rows"]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encoding rows: %w", err)
		}
		return ingest.Load(bytes.NewReader(data), ingest.JSON)
	}
	if path, ok := args["inputPath"].(string); ok && path != "" {
		return ingest.LoadFile(path)
	}
	return nil, fmt.Errorf("missing 'rows' or 'inputPath' argument")
}

func (svc *Service) handleGenerate(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	brand, err := model.ParseBrand(stringArg(args, "brand"))
	if err != nil {
		return ToolResult{}, err
	}
	docType, err := model.ParseDocumentType(stringArg(args, "documentType"))
	if err != nil {
		return ToolResult{}, err
	}
	rows, err := rowsFromArgs(args)
	if err != nil {
		return ToolResult{}, err
	}
	if err := ingest.Validate(rows); err != nil {
		return ToolResult{}, fmt.Errorf("invalid rows:\n%w", err)
	}
	trim, _ := args["trimBorder"].(bool)

	run := svc.gen.NewRun()
	svc.mu.Lock()
	svc.last = run
	svc.mu.Unlock()

	pdf, err := run.Generate(ctx, badgegen.Request{Rows: rows, Brand: brand, Type: docType, TrimBorder: trim})
	if err != nil {
		return ToolResult{}, fmt.Errorf("generation failed: %w", err)
	}

	summary := fmt.Sprintf("Generated %d %s pages for %s (%d bytes).\n%s",
		len(rows), docType, brand, len(pdf), formatWarnings(run.Warnings()))
	if verify, _ := args["verify"].(bool); verify {
		summary += verifyResult(pdf, len(rows)) + "\n"
	}

	if outputPath := stringArg(args, "outputPath"); outputPath != "" {
		if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("PDF saved to %s. %s", outputPath, summary)}},
		}, nil
	}

	return ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: summary},
			{Type: "text", Text: "Base64 PDF:\n" + base64.StdEncoding.EncodeToString(pdf), MIMEType: "application/pdf"},
		},
	}, nil
}

func formatWarnings(ws []report.Warning) string {
	if len(ws) == 0 {
		return "No warnings."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d warnings:\n", len(ws))
	for _, w := range ws {
		fmt.Fprintf(&b, "- %s %s: %s", w.Type, strings.Join(w.Path, "."), w.Message)
		if w.Details != "" {
			fmt.Fprintf(&b, " (%s)", w.Details)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (svc *Service) statusTool() Tool {
	return Tool{
		Name:        "generation_status",
		Description: "Report the progress and warnings of the most recent generation, including one still running.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			run := svc.lastRun()
			if run == nil {
				return textResult("No generation has run yet."), nil
			}
			p := run.Progress()
			state := "finished"
			if run.Active() {
				state = "running"
			}
			return textResult(fmt.Sprintf("%s: %s pages (%d%%)\n%s",
				state, p, p.Percent(), formatWarnings(run.Warnings()))), nil
		},
	}
}

func (svc *Service) listBrandsTool() Tool {
	return Tool{
		Name:        "list_brands",
		Description: "List the brands and document types that can be generated.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			var b strings.Builder
			b.WriteString("Brands:\n")
			for _, info := range brandInfos(svc.now()) {
				fmt.Fprintf(&b, "- %s: %s\n", info.Brand, info.ConferenceName)
			}
			b.WriteString("Document types:\n")
			for _, t := range model.DocumentTypes() {
				fmt.Fprintf(&b, "- %s\n", t)
			}
			return textResult(b.String()), nil
		},
	}
}

func verifyResult(pdf []byte, want int) string {
	pages, err := render.Verify(pdf)
	if err != nil {
		return fmt.Sprintf("Verification failed: %v", err)
	}
	if pages != want {
		return fmt.Sprintf("Verification failed: %d pages, expected %d", pages, want)
	}
	return fmt.Sprintf("Verified %d pages.", pages)
}

func textResult(s string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: s}}}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}
