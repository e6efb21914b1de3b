package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"gitlab.com/yelinaung/expense-report/internal/logger"
)

const meterName = "gitlab.com/yelinaung/expense-report/internal/service"

// newCounter creates a counter on the global meter provider. Instruments
// created before telemetry setup are delegated once a provider is installed.
func newCounter(name, description string) metric.Int64Counter {
	counter, err := otel.Meter(meterName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Log.Warn().Err(err).Str("instrument", name).Msg("Failed to create counter")
		return noop.Int64Counter{}
	}
	return counter
}
