package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/service"
)

const shutdownTimeout = 10 * time.Second

type httpserver struct {
	ctx context.Context
	cfg model.Config
	src service.Service
}

type Server interface {
	Run() (err error)
	Handler() http.Handler
}

// Run запуск сервера. Сервер останавливается при отмене контекста.
func (h *httpserver) Run() error {
	done := color.Green("[OK]")
	fail := color.Red("[NO]")

	srv := &http.Server{
		Addr:         ":" + h.cfg.PortApp,
		Handler:      h.Handler(),
		ReadTimeout:  h.cfg.ReadTimeout.Value,
		WriteTimeout: h.cfg.WriteTimeout.Value,
	}

	go func() {
		<-h.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error(ctx, "http server shutdown", zap.Error(err))
		}
	}()

	fmt.Printf("%s Service run (port:%s)\n", done, h.cfg.PortApp)
	logger.Info(h.ctx, "Запуск http сервера",
		zap.String("port", h.cfg.PortApp),
		zap.String("content prefix", h.cfg.ContentPrefix),
		zap.String("storage", h.cfg.StorageKind))

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("%s Error run (port:%s) err: %s\n", fail, h.cfg.PortApp, err)
		return errors.Wrap(err, "SERVER run")
	}

	return nil
}

func (h *httpserver) Handler() http.Handler {
	return h.NewRouter()
}

func New(
	ctx context.Context,
	cfg model.Config,
	src service.Service,
) Server {
	return &httpserver{
		ctx,
		cfg,
		src,
	}
}
