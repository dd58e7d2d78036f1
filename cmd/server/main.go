package main

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stittri/admission/internal/log"
	"github.com/stittri/admission/limiter"
	"github.com/stittri/admission/middleware"
	"github.com/stittri/admission/store"
)

type input struct {
	Address string `default:"localhost:8080"`
	Redis   struct {
		Address string // empty keeps client state in process memory
		Prefix  string
	}
	Limiter struct {
		Algorithm        string `default:"token_bucket"`
		MaxRate          float64
		Capacity         float64
		Period           time.Duration
		MaxExcesses      int           `split_words:"true"`
		RecordTTL        time.Duration `envconfig:"RECORD_TTL"`
		ExtendedBlockTTL time.Duration `envconfig:"EXTENDED_BLOCK_TTL"`
	}
	ClientHeaders []string `split_words:"true" default:"X-Forwarded-For"`
}

func helloHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Hello, World!"))
}

func main() {
	var in input
	if err := envconfig.Process("admission", &in); err != nil {
		log.Logger().Fatal("Failed to load configuration", zap.Error(err))
	}

	// A bad algorithm selection is a deployment mistake; die now, not on the
	// first request.
	alg, err := limiter.ParseAlgorithm(in.Limiter.Algorithm)
	if err != nil {
		log.Logger().Fatal("Failed to select an algorithm", zap.Error(err))
	}

	strategy, err := limiter.NewStrategy(alg, limiter.Config{
		DecayRate: limiter.DecayRateConfig{
			MaxRate:          in.Limiter.MaxRate,
			MaxExcesses:      in.Limiter.MaxExcesses,
			RecordTTL:        in.Limiter.RecordTTL,
			ExtendedBlockTTL: in.Limiter.ExtendedBlockTTL,
		},
		TokenBucket: limiter.TokenBucketConfig{
			Capacity:         in.Limiter.Capacity,
			Period:           in.Limiter.Period,
			MaxExcesses:      in.Limiter.MaxExcesses,
			RecordTTL:        in.Limiter.RecordTTL,
			ExtendedBlockTTL: in.Limiter.ExtendedBlockTTL,
		},
	})
	if err != nil {
		log.Logger().Fatal("Failed to build the strategy", zap.Error(err))
	}

	var st store.Store = store.NewMemory()
	if in.Redis.Address != "" {
		st = store.NewRedis(redis.NewClient(&redis.Options{
			Addr: in.Redis.Address,
		}), in.Redis.Prefix)
	}

	l, err := limiter.New(st, strategy, nil)
	if err != nil {
		log.Logger().Fatal("Failed to build the limiter", zap.Error(err))
	}

	extractor := middleware.NewHeaderExtractor(true, in.ClientHeaders...)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/hello", middleware.Handler(l, extractor, http.HandlerFunc(helloHandler)))
	mux.Handle("/metrics", promhttp.Handler())

	log.Logger().Info("Run a server",
		zap.String("address", in.Address),
		zap.Stringer("algorithm", alg))
	if err := http.ListenAndServe(in.Address, mux); err != nil {
		log.Logger().Fatal("Failed to serve handler", zap.Error(err))
	}
}
