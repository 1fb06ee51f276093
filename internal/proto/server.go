package proto

import (
	"context"
	"encoding/json"
	"math"
	"net"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/models"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/service"
)

type BookmarkerServerImpl struct {
	bookmarks *service.Bookmarks
	logger    *zap.SugaredLogger
}

func NewGRPCServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	auth *service.Auth,
	bookmarks *service.Bookmarks,
	logger *zap.SugaredLogger,
) *BookmarkerServerImpl {
	instance := BookmarkerServerImpl{
		bookmarks: bookmarks,
		logger:    logger,
	}

	grpcServer, healthServer := NewServer(&instance, auth, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.GRPCAddr())
			if err != nil {
				return errors.Wrap(err, "failed to listen")
			}

			go func() {
				if err := grpcServer.Serve(lis); err != nil {
					logger.Errorw("failed to serve", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping GRPC server.")
			healthServer.Shutdown()
			grpcServer.GracefulStop()
			return nil
		},
	})

	return &instance
}

// NewServer registers the Bookmarker and health services on a new grpc.Server.
func NewServer(impl BookmarkerServer, auth authenticator, logger *zap.SugaredLogger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			UnaryLoggingInterceptor(logger),
			UnaryAuthInterceptor(auth, logger),
		),
	)

	RegisterBookmarkerServer(grpcServer, impl)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}

func (s *BookmarkerServerImpl) GetMe(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := toStruct(models.NewUserResp(user))
	if err != nil {
		return nil, toStatus(err, s.logger)
	}
	return resp, nil
}

func (s *BookmarkerServerImpl) GetBookmarks(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarks.List(ctx, user.ID)
	if err != nil {
		return nil, toStatus(err, s.logger)
	}

	items := make([]interface{}, 0, len(bookmarks))
	for _, b := range models.NewBookmarkRespList(bookmarks) {
		m, err := toMap(b)
		if err != nil {
			return nil, toStatus(err, s.logger)
		}
		items = append(items, m)
	}

	list, err := structpb.NewList(items)
	if err != nil {
		return nil, toStatus(errors.Wrap(err, "build list"), s.logger)
	}
	return list, nil
}

func (s *BookmarkerServerImpl) GetBookmark(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	id := req.GetValue()
	if id == 0 || id > math.MaxInt64 {
		return nil, status.Error(codes.InvalidArgument, "invalid bookmark id")
	}

	model, err := s.bookmarks.Get(ctx, user.ID, id)
	if err != nil {
		return nil, toStatus(err, s.logger)
	}

	resp, err := toStruct(models.NewBookmarkResp(model))
	if err != nil {
		return nil, toStatus(err, s.logger)
	}
	return resp, nil
}

// toMap goes through JSON so gRPC clients see the same shape as HTTP ones.
func toMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}
	return m, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	m, err := toMap(v)
	if err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "build struct")
	}
	return s, nil
}
