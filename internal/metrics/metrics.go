package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WagersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zoo_roulette_wagers_placed_total",
		Help: "Принятые ставки (одиночные и из пакетной замены)",
	})

	RoundsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zoo_roulette_rounds_settled_total",
		Help: "Рассчитанные раунды",
	})

	PayoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zoo_roulette_payout_failures_total",
		Help: "Ставки, расчет которых упал и ждет сверки",
	})
)

type HealthFunc func(ctx context.Context) error

// StartServer - легкий HTTP сервер только для /metrics и /healthz
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
