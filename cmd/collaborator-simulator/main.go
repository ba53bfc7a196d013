package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ovchar/miniapp-bet-client/internal/shared/cache"
	"github.com/ovchar/miniapp-bet-client/internal/shared/config"
	"github.com/ovchar/miniapp-bet-client/internal/shared/db"
	skafka "github.com/ovchar/miniapp-bet-client/internal/shared/kafka"
	"github.com/ovchar/miniapp-bet-client/internal/shared/logger"
	"github.com/ovchar/miniapp-bet-client/internal/shared/metrics"
	scache "github.com/ovchar/miniapp-bet-client/internal/simulator/cache"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/games"
	shttp "github.com/ovchar/miniapp-bet-client/internal/simulator/http"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/producer"
	"github.com/ovchar/miniapp-bet-client/internal/simulator/repo"
	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// Catálogo semente, no espírito do colaborador de referência. Os
// horários são relativos à subida para haver eventos live e upcoming.
func seedCatalog(now time.Time) []capi.Event {
	at := func(d time.Duration) string { return now.Add(d).UTC().Format(time.RFC3339) }
	return []capi.Event{
		{ID: "evt_1", Title: "Real Madrid vs Barcelona", Category: "football",
			TeamA: "Real Madrid", TeamB: "Barcelona", CommenceTime: at(-30 * time.Minute),
			OddsA: 2.10, OddsDraw: 3.40, OddsB: 3.20},
		{ID: "evt_2", Title: "Man City vs Liverpool", Category: "football",
			TeamA: "Man City", TeamB: "Liverpool", CommenceTime: at(2 * time.Hour),
			OddsA: 1.85, OddsDraw: 3.60, OddsB: 4.00},
		{ID: "evt_3", Title: "Lakers vs Warriors", Category: "basketball",
			TeamA: "Lakers", TeamB: "Warriors", CommenceTime: at(-10 * time.Minute),
			OddsA: 1.95, OddsDraw: 0, OddsB: 1.90},
		{ID: "evt_4", Title: "Djokovic vs Alcaraz", Category: "tennis",
			TeamA: "Djokovic", TeamB: "Alcaraz", CommenceTime: at(5 * time.Hour),
			OddsA: 2.20, OddsDraw: 0, OddsB: 1.70},
		{ID: "evt_5", Title: "PSG vs Bayern", Category: "football",
			TeamA: "PSG", TeamB: "Bayern", CommenceTime: at(24 * time.Hour),
			OddsA: 2.50, OddsDraw: 3.30, OddsB: 2.80},
	}
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(shttp.RequestsTotal, shttp.WagersAccepted, shttp.QuickRounds)

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	repository := repo.NewPostgres(pg)
	ctx := context.Background()
	if err := repository.EnsureSchema(ctx); err != nil {
		log.Fatal("schema", zap.Error(err))
	}
	if err := repository.SeedEvents(ctx, seedCatalog(time.Now())); err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	// Redis (cache do catálogo); sem ele o simulador segue direto no banco
	var evCache *scache.EventsCache
	if rdb, err := cache.ConnectRedis(cfg.RedisAddr); err != nil {
		log.Warn("redis unavailable, serving without events cache", zap.Error(err))
	} else {
		evCache = scache.New(rdb)
	}

	// Kafka (eventos de aposta); sem brokers configurados vira noop
	var publ shttp.Publisher = producer.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		placed := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlaced)
		settled := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
		defer placed.Close()
		defer settled.Close()
		publ = producer.NewKafkaPublisher(placed, settled)
	}

	resolver := games.NewResolver(time.Now().UnixNano())
	srv := shttp.NewServer(log, repository, evCache, resolver, publ)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	apiSrv := &http.Server{Addr: addr, Handler: srv.Router()}

	log.Info("collaborator simulator listening", zap.String("addr", addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
