package observability

import (
	"context"
	"sort"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Health держит статусы провайдеров в стандартном gRPC health-сервере.
// Имена сервисов: "<kind>.<provider>", например "listing.coinlore".
// Пустое имя — общий статус процесса.
type Health struct {
	srv      *health.Server
	services []string
}

// NewHealth: все перечисленные сервисы стартуют как SERVING.
func NewHealth(services ...string) *Health {
	h := &Health{srv: health.NewServer()}
	h.srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, s := range services {
		h.srv.SetServingStatus(s, healthpb.HealthCheckResponse_SERVING)
		h.services = append(h.services, s)
	}
	sort.Strings(h.services)
	return h
}

func ServiceName(kind, provider string) string { return kind + "." + provider }

// Server — для регистрации на grpc.Server.
func (h *Health) Server() *health.Server { return h.srv }

func (h *Health) Mark(service string, ok bool) {
	st := healthpb.HealthCheckResponse_SERVING
	if !ok {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus(service, st)
}

// Statuses читает текущие статусы через Check, как это сделал бы внешний клиент.
func (h *Health) Statuses(ctx context.Context) map[string]string {
	out := make(map[string]string, len(h.services))
	for _, s := range h.services {
		resp, err := h.srv.Check(ctx, &healthpb.HealthCheckRequest{Service: s})
		if err != nil {
			out[s] = healthpb.HealthCheckResponse_UNKNOWN.String()
			continue
		}
		out[s] = resp.GetStatus().String()
	}
	return out
}

// Shutdown переводит все сервисы в NOT_SERVING и больше не принимает обновлений.
func (h *Health) Shutdown() { h.srv.Shutdown() }
