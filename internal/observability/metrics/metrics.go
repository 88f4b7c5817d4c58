package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ledgerActions     metric.Int64Counter
	earningsRecorded  metric.Int64Counter
	statusTransitions metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "atelier"
	}
	meter := provider.Meter(name)

	ledgerActions, err := meter.Int64Counter("atelier_ledger_actions_total")
	if err != nil {
		return nil, err
	}
	earningsRecorded, err := meter.Int64Counter("atelier_earnings_recorded_total")
	if err != nil {
		return nil, err
	}
	statusTransitions, err := meter.Int64Counter("atelier_status_transitions_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ledgerActions:     ledgerActions,
		earningsRecorded:  earningsRecorded,
		statusTransitions: statusTransitions,
	}, nil
}

// RecordLedgerAction increments per-action dispatch counts.
func (m *Metrics) RecordLedgerAction(ctx context.Context, action, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("action", strings.TrimSpace(action)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.ledgerActions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordEarning increments recorded-earning counts by kind.
func (m *Metrics) RecordEarning(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.earningsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStatusTransition counts rows moved into a target status.
func (m *Metrics) RecordStatusTransition(ctx context.Context, toStatus string, affected int) {
	if m == nil || affected <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("to_status", strings.TrimSpace(toStatus)))
	m.statusTransitions.Add(ctx, int64(affected), metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"action":      {},
	"outcome":     {},
	"kind":        {},
	"to_status":   {},
	"endpoint":    {},
	"status_code": {},
	"method":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
