package proto

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/service"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/token"
)

type userKey struct{}

type authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*db.User, error)
}

func userFromContext(ctx context.Context) (*db.User, error) {
	user, ok := ctx.Value(userKey{}).(*db.User)
	if !ok || user == nil {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return user, nil
}

// UnaryAuthInterceptor resolves the "authorization" metadata of Bookmarker
// calls to a user and attaches it to the context. Other services pass through.
func UnaryAuthInterceptor(auth authenticator, logger *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		tokenString, ok := token.BearerToken(values[0])
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}

		user, err := auth.Authenticate(ctx, tokenString)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				logger.Debugw("rejected token", "method", info.FullMethod, "error", err)
				return nil, status.Error(codes.Unauthenticated, "unauthenticated")
			}
			return nil, toStatus(err, logger)
		}

		return handler(context.WithValue(ctx, userKey{}, user), req)
	}
}

// UnaryLoggingInterceptor logs each unary call with method and duration.
func UnaryLoggingInterceptor(logger *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		start := time.Now()

		resp, err = handler(ctx, req)

		st, _ := status.FromError(err)
		logger.Infow("gRPC request",
			"method", info.FullMethod,
			"duration", time.Since(start),
			"code", st.Code().String(),
		)

		return resp, err
	}
}

func toStatus(err error, logger *zap.SugaredLogger) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, service.ErrBookmarkNotFound), errors.Is(err, service.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, service.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		logger.Errorw("gRPC call failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
