package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akshaydalvi/medikart/internal/mykafka"
)

// publish emits an event without failing the request; delivery problems are
// logged and swallowed.
func publish(c echo.Context, p mykafka.Publisher, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
