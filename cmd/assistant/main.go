package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/qanoon-app/qanoon/internal/archive"
	"github.com/qanoon-app/qanoon/internal/engine"
	"github.com/qanoon-app/qanoon/internal/httpapi"
	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/report"
	"github.com/qanoon-app/qanoon/internal/session"
	"github.com/qanoon-app/qanoon/internal/tracing"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "Listen address")
		dbPath    = flag.String("db-path", "./qanoon.db", "SQLite case archive path")
		reportDir = flag.String("report-dir", "./reports", "Directory for generated case reports")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, "qanoon-assistant")
	if err != nil {
		log.Fatalf("tracing setup: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	gw, err := llm.NewClientFromEnv(ctx)
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}

	store, err := archive.Open(*dbPath)
	if err != nil {
		log.Fatalf("open archive: %v", err)
	}
	defer store.Close()

	dir := session.NewDirectory(session.DefaultTTL, session.DefaultSweep)
	eng := engine.New(gw, dir)
	eng.OnComplete(httpapi.NewCompletionSink(store, *reportDir).Handle)

	handler := httpapi.NewServer(eng, dir, store, report.NewChromiumPDFRenderer())

	log.Printf("qanoon assistant listening on %s (db=%s, reports=%s)", *addr, *dbPath, *reportDir)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
