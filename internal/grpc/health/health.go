// Package health поднимает gRPC-сервер со стандартным сервисом
// grpc.health.v1.Health. Статус сервиса отражает доступность хранилища.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
)

// ServiceName имя сервиса в ответах Health/Check.
const ServiceName = "gym-tracker"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server объединяет gRPC-сервер и периодическую проверку хранилища.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	storage    Pinger
	interval   time.Duration
	log        *slog.Logger
}

// New создает Server. interval задаёт период проверки хранилища.
func New(log *slog.Logger, storage Pinger, interval time.Duration) *Server {
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{
		grpcServer: gs,
		health:     hs,
		storage:    storage,
		interval:   interval,
		log:        log,
	}
}

// Serve принимает соединения на lis, пока ctx не отменён.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.refresh(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", lis.Addr().String()))
		errCh <- s.grpcServer.Serve(lis)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Server) refresh(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.storage.Ping(pingCtx); err != nil {
		s.log.Warn("storage ping failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
}
