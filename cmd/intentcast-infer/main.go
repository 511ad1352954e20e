package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"intentcast/internal/core/version"
	"intentcast/internal/modkit"
	"intentcast/internal/modkit/module"
	"intentcast/internal/platform/config"
	"intentcast/internal/platform/logger"
	"intentcast/internal/platform/store"

	infdom "intentcast/internal/services/inference/domain"
	infmod "intentcast/internal/services/inference/module"
	intmod "intentcast/internal/services/intents/module"
	sigdom "intentcast/internal/services/signals/domain"
	sigmod "intentcast/internal/services/signals/module"
	trdom "intentcast/internal/services/translator/domain"
	trmod "intentcast/internal/services/translator/module"
)

// seedSignal is the JSON shape accepted by -seed files
type seedSignal struct {
	CompanyID int64         `json:"company_id"`
	Source    string        `json:"source"`
	EventAt   time.Time     `json:"event_at"`
	Text      string        `json:"text"`
	Fields    sigdom.Fields `json:"fields"`
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	l := logger.Get()

	var (
		companyID = flag.Int64("company", 0, "company id to infer (required)")
		sinceStr  = flag.String("since", "", "only process signals on/after this date, e.g. 2025-06-01")
		seedPath  = flag.String("seed", "", "optional JSON file of signals to ingest first")
		digest    = flag.Bool("digest", false, "print audience digest after the pass")
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
		Msg("starting inference worker")

	var since *time.Time
	if *sinceStr != "" {
		t, err := time.Parse("2006-01-02", *sinceStr)
		if err != nil {
			log.Fatalf("bad -since: %v", err)
		}
		t = t.UTC()
		since = &t
	}

	st, err := store.Open(context.Background(), store.Config{
		AppName: "intentcast-infer",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
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
		Log: *l,
	}

	sm := sigmod.New(deps)
	im := intmod.New(deps)

	sigPorts := module.MustPortsOf[sigmod.Ports](sm)
	intPorts := module.MustPortsOf[intmod.Ports](im)

	fm, err := infmod.New(deps, modkit.WithPorts(infdom.Ports{
		Signals: sigPorts.Query,
		Writer:  intPorts.Writer,
		Intents: intPorts.Query,
	}))
	if err != nil {
		l.Fatal().Err(err).Msg("inference module init failed")
	}
	tm := trmod.New(deps, modkit.WithPorts(trdom.Ports{Intents: intPorts.Query}))

	module.Register(sm.Name(), sm.Ports())
	module.Register(im.Name(), im.Ports())
	module.Register(fm.Name(), fm.Ports())
	module.Register(tm.Name(), tm.Ports())

	ctx := logger.WithRun(context.Background(), uuid.NewString(), *companyID)

	if *seedPath != "" {
		n, err := seed(ctx, sigPorts.Ingest, *seedPath)
		if err != nil {
			l.Fatal().Err(err).Str("path", *seedPath).Msg("seed failed")
		}
		logger.C(ctx).Info().Int("ingested", n).Str("path", *seedPath).Msg("signals seeded")
	}

	infPorts, ok := module.PortsAs[infmod.Ports](fm.Name())
	if !ok {
		l.Fatal().Msg("inference ports not registered")
	}

	res, err := infPorts.Runner.InferCompany(ctx, *companyID, since)
	if err != nil {
		l.Fatal().Err(err).Msg("inference failed")
	}
	logger.C(ctx).Info().
		Int("signals", res.Signals).
		Int("candidates", res.Candidates).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Msg("done")

	if *digest {
		trPorts, ok := module.PortsAs[trmod.Ports](tm.Name())
		if !ok {
			l.Fatal().Msg("translator ports not registered")
		}
		d, err := trPorts.Translate.Digest(ctx, *companyID)
		if err != nil {
			l.Fatal().Err(err).Msg("digest failed")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			l.Fatal().Err(err).Msg("encode digest")
		}
	}
}

func seed(ctx context.Context, ingest sigdom.IngestPort, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var rows []seedSignal
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, err
	}
	writes := make([]sigdom.SignalWrite, 0, len(rows))
	for _, r := range rows {
		writes = append(writes, sigdom.SignalWrite{
			CompanyID: r.CompanyID,
			Source:    r.Source,
			EventAt:   r.EventAt,
			RawText:   r.Text,
			Fields:    r.Fields,
		})
	}
	return ingest.Ingest(ctx, writes)
}
