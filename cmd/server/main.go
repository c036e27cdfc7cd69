package main

import (
	"log"
	"os"
	"strings"
	"time"

	completionapi "villagesage/internal/adapter/completion"
	httpadapter "villagesage/internal/adapter/http"
	"villagesage/internal/adapter/httpclient"
	"villagesage/internal/adapter/memoryapi"
	metricsinmem "villagesage/internal/adapter/metrics/inmemory"
	gormrepo "villagesage/internal/adapter/repo/gorm"
	memrepo "villagesage/internal/adapter/repo/memory"
	"villagesage/internal/app/background"
	"villagesage/internal/app/chat"
	"villagesage/internal/app/ports"
	"villagesage/internal/app/replay"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	httpc, err := httpclient.New()
	if err != nil {
		log.Fatalf("http client: %v", err)
	}

	completion := completionapi.New(httpc, os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_BASE_URL"))
	if !completion.Configured() {
		log.Println("[SERVER] ANTHROPIC_API_KEY is not set; completion calls will fail")
	}

	memory := memoryapi.New(httpc, os.Getenv("MEM0_API_KEY"), os.Getenv("MEM0_BASE_URL"))
	if !memory.Enabled() {
		log.Println("[SERVER] MEM0_API_KEY is not set; memory augmentation disabled")
	}

	turns := buildTurnLog()
	recorder := metricsinmem.NewRecorder()
	runner := background.NewRunner(30 * time.Second)

	h := httpadapter.Handler{
		ChatUC: chat.UseCase{
			Completion: completion,
			Memory:     memory,
			Turns:      turns,
			Metrics:    recorder,
			Detach:     runner,
			Now:        time.Now,
		},
		ReplayUC: replay.UseCase{Turns: turns},
		Proxy:    completion,
		KPI:      recorder,
	}

	addr := ":" + envOr("PORT", "8080")
	s := server.Default(
		server.WithHostPorts(addr),
		server.WithHandleMethodNotAllowed(true),
	)
	h.RegisterRoutes(s)

	log.Printf("[SERVER] villagesage listening on %s", addr)
	s.Spin()
}

// buildTurnLog returns the postgres-backed turn log when a DSN is
// configured, otherwise an in-process one.
func buildTurnLog() ports.TurnLogRepository {
	dsn := strings.TrimSpace(os.Getenv("ADVISOR_DB_DSN"))
	if dsn == "" {
		log.Println("[SERVER] ADVISOR_DB_DSN is not set; using in-memory turn log")
		return memrepo.NewTurnRepo()
	}
	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return gormrepo.NewTurnRepo(db)
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
