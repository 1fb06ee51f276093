package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/logger"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/proto"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/service"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/token"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/transport"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		db.Module,
		token.Module,
		service.Module,
		transport.Module,
		proto.Module,
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Desugar()}
		}),
		fx.Invoke(func(*transport.HTTPServer, *proto.BookmarkerServerImpl) {}),
	).Run()
}
