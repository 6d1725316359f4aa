package service

import (
	"context"
	"net/http"
	"time"

	"goodvibes-bot/internal/pkg/logger"
)

// IPingerService keeps the process warm on free-tier hosts by hitting the
// liveness endpoint on a fixed interval. It shares no state with sessions;
// a failed ping is logged and nothing else.
type IPingerService interface {
	Start(ctx context.Context)
}

type pingerService struct {
	targetURL  string
	interval   time.Duration
	httpClient *http.Client
	logger     logger.ILogger
}

func NewPingerService(targetURL string, interval time.Duration, log logger.ILogger) IPingerService {
	return &pingerService{
		targetURL: targetURL,
		interval:  interval,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

func (s *pingerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ping(ctx)
		}
	}
}

func (s *pingerService) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.targetURL, nil)
	if err != nil {
		s.logger.Error("pinger", "building ping request failed", map[string]interface{}{
			"url": s.targetURL, "error": err.Error(),
		})
		return
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("pinger", "keep-alive ping failed", map[string]interface{}{
			"url": s.targetURL, "error": err.Error(),
		})
		return
	}
	resp.Body.Close()

	s.logger.Debug("pinger", "keep-alive ping sent", map[string]interface{}{
		"url": s.targetURL, "status": resp.StatusCode,
	})
}
