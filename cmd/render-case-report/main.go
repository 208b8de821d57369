package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/qanoon-app/qanoon/internal/archive"
	"github.com/qanoon-app/qanoon/internal/report"
)

// render-case-report rebuilds a stored case report from the archive and
// optionally prints it to PDF through headless Chromium.
func main() {
	dbPath := flag.String("db", "./qanoon.db", "SQLite case archive path")
	caseID := flag.String("case", "", "Case ID to render")
	outputPath := flag.String("output", "", "Path to write markdown (defaults to stdout)")
	pdfPath := flag.String("pdf", "", "Optional path to write a PDF rendering")
	flag.Parse()

	if *caseID == "" {
		log.Fatal("missing required -case")
	}

	store, err := archive.Open(*dbPath)
	if err != nil {
		log.Fatalf("open archive: %v", err)
	}
	defer store.Close()

	rec, err := store.Get(*caseID)
	if err != nil {
		log.Fatalf("load case: %v", err)
	}

	markdown := rec.Report
	if markdown == "" {
		log.Fatalf("case %s has no stored report", *caseID)
	}

	if err := writeMarkdown(*outputPath, markdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *pdfPath != "" {
		renderer := report.NewChromiumPDFRenderer()
		pdf, err := renderer.Render(context.Background(), markdown, rec.Language)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
		log.Printf("wrote %s", *pdfPath)
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
