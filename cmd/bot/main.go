package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/config"
	"fundtracker/internal/finance"
	"fundtracker/internal/fund"
	"fundtracker/internal/logging"
	"fundtracker/internal/openai"
	"fundtracker/internal/report"
	"fundtracker/internal/server"
	"fundtracker/internal/storage"
	"fundtracker/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	yahoo := finance.NewYahooClient(finance.WithHosts(cfg.YahooHosts...), finance.WithRateLimit(cfg.YahooRPS))
	src, db, err := storage.OpenPriceCache(ctx, cfg.DBPath, yahoo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	log.Printf("db: opened sqlite price cache at %s", cfg.DBPath)

	plan, err := config.LoadPlan(cfg.PlanPath)
	if err != nil {
		log.Fatal(err)
	}
	var reviewer report.Reviewer
	if cfg.OpenAIKey != "" {
		reviewer = openai.NewReviewer(cfg.OpenAIKey, cfg.OpenAIModel)
	} else {
		log.Warn("OPENAI_API_KEY not set, /review is disabled")
	}

	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	var svc *report.Service
	if plan.Params.Until.IsZero() {
		// valued up to today, replayed again when the day changes
		svc, err = report.NewRollingService(loadCtx, src, plan.Params, plan.Trades, reviewer)
	} else {
		var f *fund.Fund
		if f, err = fund.Replay(loadCtx, src, plan.Params, plan.Trades); err == nil {
			svc = report.NewService(f, reviewer)
		}
	}
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{"benchmark": plan.Params.Benchmark, "trades": len(plan.Trades), "until": svc.Until()}).Info("fund: plan replayed")

	tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, svc, src, cfg.ReportChatID)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("telegram: bot initialized, webhook target %s", cfg.WebhookPublicURL)

	if cfg.ReportSchedule != "" && cfg.ReportChatID != 0 {
		c := cron.New()
		if _, err := c.AddFunc(cfg.ReportSchedule, func() { tg.PushReport(cfg.ReportChatID) }); err != nil {
			log.Fatalf("REPORT_SCHEDULE %q: %v", cfg.ReportSchedule, err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("cron: report scheduled %q for chat %d", cfg.ReportSchedule, cfg.ReportChatID)
	}

	r := server.NewRouter(tg.WebhookHandler, svc)
	addr := ":" + cfg.Port
	log.Println("http: listening on", addr)
	if err := server.ListenAndServe(addr, r); err != nil {
		log.Errorln("server error:", err)
		os.Exit(1)
	}
}
