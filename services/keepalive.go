package services

import (
	"fmt"
	"net/http"
	"time"

	"pdf-chat-backend/internal/logger"

	"github.com/go-co-op/gocron"
)

// KeepAlive pings the service's own health endpoint on a fixed interval so
// free-tier hosts don't idle the process out. Disabled when no URL is set.
type KeepAlive struct {
	scheduler *gocron.Scheduler
	url       string
	client    *http.Client
}

func NewKeepAlive(url string, intervalMinutes int) *KeepAlive {
	if intervalMinutes <= 0 {
		intervalMinutes = 14
	}

	scheduler := gocron.NewScheduler(time.UTC)
	ka := &KeepAlive{
		scheduler: scheduler,
		url:       url,
		client:    &http.Client{Timeout: 30 * time.Second},
	}

	scheduler.Every(intervalMinutes).Minutes().Do(ka.ping)
	return ka
}

func (k *KeepAlive) Start() {
	logger.Info("Keep-alive ping enabled", "url", k.url)
	k.scheduler.StartAsync()
}

func (k *KeepAlive) Stop() {
	k.scheduler.Stop()
}

func (k *KeepAlive) ping() error {
	resp, err := k.client.Get(k.url)
	if err != nil {
		logger.Warn("Keep-alive ping failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Keep-alive ping returned non-OK status", "status", resp.StatusCode)
		return fmt.Errorf("keep-alive ping: %s", resp.Status)
	}
	return nil
}
