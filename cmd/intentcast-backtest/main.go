package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"intentcast/internal/core/version"
	"intentcast/internal/modkit"
	"intentcast/internal/modkit/module"
	"intentcast/internal/platform/config"
	"intentcast/internal/platform/logger"
	"intentcast/internal/platform/store"

	btdom "intentcast/internal/services/backtest/domain"
	btmod "intentcast/internal/services/backtest/module"
	intmod "intentcast/internal/services/intents/module"
	outdom "intentcast/internal/services/outcomes/domain"
	outmod "intentcast/internal/services/outcomes/module"
)

// seedOutcome is the JSON shape accepted by -seed-outcomes files
type seedOutcome struct {
	CompanyID  int64     `json:"company_id"`
	Type       string    `json:"outcome_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Details    string    `json:"details"`
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	var (
		companyID = flag.Int64("company", 0, "company id to backtest (required)")
		lookback  = flag.Int("lookback", 730, "outcome lookback in days")
		seedPath  = flag.String("seed-outcomes", "", "optional JSON file of outcomes to record first")
		kpiIntent = flag.String("kpi-intent", "IPO_PREP", "intent type for KPI computation")
		latest    = flag.Bool("report-only", false, "summarize the latest persisted run instead of running a new backtest")
		k         = flag.Int("k", 5, "top-K size for precision")
		window    = flag.Int("window", 365, "match horizon in days")
		threshold = flag.Float64("threshold", 70, "readiness threshold")
	)
	flag.Parse()

	if *companyID == 0 {
		log.Fatal("-company is required")
	}

	bi := version.Info()
	l.Info().
		Str("service", bi.Service).
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Msg("starting backtest worker")

	st, err := store.Open(context.Background(), store.Config{
		AppName: "intentcast-backtest",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayBool("ENABLED", false),
			URL:     chCfg.MayString("DBURL", ""),
			Role:    "backtest",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("store guard failed")
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	im := intmod.New(deps)
	om := outmod.New(deps)

	intPorts := module.MustPortsOf[intmod.Ports](im)
	outPorts := module.MustPortsOf[outmod.Ports](om)

	bm := btmod.New(deps, modkit.WithPorts(btdom.Ports{
		Intents:  intPorts.Query,
		Outcomes: outPorts.Query,
	}))

	module.Register(im.Name(), im.Ports())
	module.Register(om.Name(), om.Ports())
	module.Register(bm.Name(), bm.Ports())

	ctx := context.Background()

	if *seedPath != "" {
		n, err := seedOutcomes(ctx, outPorts.Seed, *seedPath)
		if err != nil {
			l.Fatal().Err(err).Str("path", *seedPath).Msg("outcome seed failed")
		}
		l.Info().Int("recorded", n).Str("path", *seedPath).Msg("outcomes seeded")
	}

	ports, ok := module.PortsAs[btmod.Ports](bm.Name())
	if !ok {
		l.Fatal().Msg("backtest ports not registered")
	}

	var report []btdom.ReportRow
	if *latest {
		report, err = ports.Metrics.Report(ctx, *companyID)
		if err != nil {
			l.Fatal().Err(err).Msg("report failed")
		}
	} else {
		results, err := ports.Runner.Run(ctx, *companyID, *lookback)
		if err != nil {
			l.Fatal().Err(err).Msg("backtest failed")
		}
		report = ports.Metrics.BuildReport(results)
	}

	kpis, err := ports.Metrics.ComputeKPIs(ctx, *companyID, btdom.KPIParams{
		IntentType:         *kpiIntent,
		K:                  *k,
		WindowDays:         *window,
		ReadinessThreshold: *threshold,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("kpi computation failed")
	}

	out := struct {
		CompanyID int64             `json:"company_id"`
		Report    []btdom.ReportRow `json:"report"`
		KPIs      btdom.KPIs        `json:"kpis"`
	}{*companyID, report, kpis}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		l.Fatal().Err(err).Msg("encode report")
	}
}

func seedOutcomes(ctx context.Context, seeder outdom.SeedPort, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var rows []seedOutcome
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, err
	}
	writes := make([]outdom.Outcome, 0, len(rows))
	for _, r := range rows {
		writes = append(writes, outdom.Outcome{
			CompanyID:  r.CompanyID,
			Type:       r.Type,
			OccurredAt: r.OccurredAt,
			Details:    r.Details,
		})
	}
	return seeder.Insert(ctx, writes)
}
