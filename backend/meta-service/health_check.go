package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

const (
	defaultPort    = "8081"
	probeTimeout   = 2 * time.Second
	defaultTargets = "http://localhost:8080/health"
)

func main() {
	utils.InitLogger("meta-service")

	targets := parseTargets(os.Getenv("HEALTH_TARGETS"))
	client := &http.Client{Timeout: probeTimeout}

	http.HandleFunc("/health", healthHandler(client, targets))
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = defaultPort
	}
	utils.Logger.Infof("Starting health check service on port %s for %d targets", port, len(targets))
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		utils.Logger.Fatal("meta-service failed to start:", err)
	}
}

// parseTargets splits a comma separated list of health URLs.
func parseTargets(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = defaultTargets
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func healthHandler(client *http.Client, targets []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allHealthy(r.Context(), client, targets) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "OK")
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "Unhealthy")
	}
}

// allHealthy probes every target concurrently.
func allHealthy(ctx context.Context, client *http.Client, targets []string) bool {
	var wg sync.WaitGroup
	results := make(chan bool, len(targets)) // buffered to avoid goroutine leaks

	for _, url := range targets {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			results <- probe(ctx, client, u)
		}(url)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	healthy := true
	for ok := range results {
		if !ok {
			healthy = false
		}
	}
	return healthy
}

func probe(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		utils.Logger.WithError(err).Warnf("[meta-service] bad health target %s", url)
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		utils.Logger.WithError(err).Warnf("[meta-service] service unhealthy: %s", url)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		utils.Logger.Warnf("[meta-service] service unhealthy: %s (status %d)", url, resp.StatusCode)
		return false
	}
	return true
}
