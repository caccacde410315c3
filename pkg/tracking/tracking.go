package tracking

import (
	"net/http"

	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/types"
	"go.uber.org/zap"
)

// LogTracking writes tracking events to the log. It is used when no message
// broker is configured.
type LogTracking struct {
	logger *zap.Logger
}

func NewLogTracking(logger *zap.Logger) *LogTracking {
	return &LogTracking{logger: logging.OrNop(logger)}
}

func (t *LogTracking) TrackSession(sessionId string, r *http.Request) {
	t.logger.Debug("session", zap.String("session", sessionId), zap.String("ip", clientIp(r)))
}

func (t *LogTracking) TrackSearch(event types.SearchEvent) {
	t.logger.Debug("search",
		zap.String("session", event.SessionId),
		zap.String("page", string(event.Page)),
		zap.String("query", event.Query),
		zap.Int("results", event.NumberOfResults),
		zap.Int("pg", event.PageNumber),
		zap.Bool("fallback", event.Fallback))
}

func (t *LogTracking) Close() error {
	return nil
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}
