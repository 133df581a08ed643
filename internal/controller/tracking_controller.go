package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type TrackingRecorder interface {
	RecordClick(ctx context.Context, clickID string) (bool, error)
	RecordOpen(ctx context.Context, trackingID string) (bool, error)
}

type TrackingController struct {
	Service      TrackingRecorder
	FallbackURL  string
	WriteTimeout time.Duration
	Logger       *zap.Logger
}

// 1x1 transparent GIF.
var pixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackClick records the click and redirects. The redirect is always sent,
// whatever happens to the tracking write.
func (c *TrackingController) TrackClick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clickID := q.Get("id")
	dest := q.Get("url")

	if clickID != "" && dest != "" {
		c.record("click", clickID, r, c.Service.RecordClick)
	}
	if dest == "" {
		dest = c.FallbackURL
	}

	w.Header().Set("Location", dest)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusFound)
}

// TrackOpen records the open and serves the pixel. Always 200.
func (c *TrackingController) TrackOpen(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		c.record("open", id, r, c.Service.RecordOpen)
	}

	h := w.Header()
	h.Set("Content-Type", "image/gif")
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.WriteHeader(http.StatusOK)
	w.Write(pixel)
}

func (c *TrackingController) record(event, id string, r *http.Request, fn func(context.Context, string) (bool, error)) {
	ctx := context.WithoutCancel(r.Context())
	if c.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.WriteTimeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			c.logger().Error("tracking write panicked",
				zap.String("event", event),
				zap.String("id", id),
				zap.String("panic", fmt.Sprint(p)),
			)
		}
	}()

	if _, err := fn(ctx, id); err != nil {
		c.logger().Error("tracking write failed", zap.String("event", event), zap.String("id", id), zap.Error(err))
	}
}

func (c *TrackingController) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
