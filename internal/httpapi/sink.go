package httpapi

import (
	"log"

	"github.com/qanoon-app/qanoon/internal/archive"
	"github.com/qanoon-app/qanoon/internal/engine"
	"github.com/qanoon-app/qanoon/internal/report"
)

// CompletionSink turns a finished intake into its durable artifacts: the
// markdown report on disk and the archived case row. It runs inside the
// engine's completion hook; failures are logged, never surfaced to the
// user, because by this point the analysis has already been delivered.
type CompletionSink struct {
	store     *archive.Store
	reportDir string
}

func NewCompletionSink(store *archive.Store, reportDir string) *CompletionSink {
	return &CompletionSink{store: store, reportDir: reportDir}
}

func (cs *CompletionSink) Handle(c engine.CompletedCase) {
	md := report.BuildMarkdown(c.CaseType, c.CaseID, c.Data, c.Analysis, c.Language, c.CompletedAt)

	filename := report.Filename(c.CaseType, c.ClientName, c.CompletedAt, c.Language)
	path, err := report.WriteText(cs.reportDir, filename, md)
	if err != nil {
		log.Printf("qanoon sink report_write_failed case=%s err=%q", c.CaseID, err.Error())
	} else {
		log.Printf("qanoon sink report_written case=%s path=%s", c.CaseID, path)
	}

	if cs.store == nil {
		return
	}
	err = cs.store.Save(archive.Record{
		CaseID:      c.CaseID,
		CaseType:    string(c.CaseType),
		Language:    c.Language,
		ClientName:  c.ClientName,
		Data:        c.Data,
		Analysis:    c.Analysis,
		Report:      md,
		CompletedAt: c.CompletedAt,
	})
	if err != nil {
		log.Printf("qanoon sink archive_failed case=%s err=%q", c.CaseID, err.Error())
		return
	}
	log.Printf("qanoon sink case_archived case=%s type=%s", c.CaseID, c.CaseType)
}
