package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/cache"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/servers"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/servers/httpserver"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/service"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

const shutdownDelay = 2 * time.Second

var (
	serviceVersion string
	hashCommit     string
)

func main() {
	err := scorm.RunServiceFuncCLI(context.Background(), os.Args, Start, Parse)
	if err != nil {
		fmt.Printf("%s (os.exit 1)\n", err)
		os.Exit(1)
	}
}

// Start стартуем сервис плеера
func Start(ctxm context.Context, configfile, port string) (err error) {
	var cfg model.Config

	done := color.Green("[OK]")
	fail := color.Red("[Fail]")

	ctx, cancel := context.WithCancel(ctxm)
	defer cancel()

	if _, err = scorm.ConfigLoad(configfile, &cfg); err != nil {
		return fmt.Errorf("%s (%w)", "Error. Load config is failed.", err)
	}
	if port != "" {
		cfg.PortApp = port
	}
	if err = cfg.Validate(ctx); err != nil {
		return fmt.Errorf("%s (%w)", "Error. Config is invalid.", err)
	}

	err = logger.SetupDefaultLogger(cfg.Namespace,
		logger.WithLevel(cfg.LogsLevel),
		logger.WithFileRotation(cfg.LogsFile, cfg.LogsMaxSize.Value, cfg.LogsMaxBackups.Value, cfg.LogsMaxAge.Value),
		logger.WithCustomField(logger.ServiceIDKey, ksuid.New().String()),
		logger.WithCustomField(logger.ServiceVersionKey, serviceVersion),
		logger.WithCustomField(logger.HashCommitKey, hashCommit),
	)
	if err != nil {
		fmt.Printf("%s Error init logger. err: %s\n", fail, err)
		return err
	}
	fmt.Printf("%s Enabled logs (level: %s). File:%s\n", done, cfg.LogsLevel, cfg.LogsFile)
	logger.Info(ctx, "Запускаем scorm-сервис", zap.String("storage", cfg.StorageKind), zap.String("port", cfg.PortApp))

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "Recover panic from main function.", zap.Any("panic", rec), zap.String("debug stack", string(debug.Stack())))
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	storageCfg, err := cfg.StorageConfig(ctx)
	if err != nil {
		return err
	}
	st, err := storage.New(ctx, storageCfg)
	if err != nil {
		logger.Error(ctx, "Error init storage", zap.Error(err))
		return err
	}
	defer st.Close()
	fmt.Printf("%s Storage is ready (kind: %s)\n", done, cfg.StorageKind)

	courses := cache.New(ctx, cfg.CacheTTL.Value, cfg.CacheIdle.Value)
	defer courses.Close()

	var progress runtime.Store = runtime.NewMemoryStore()
	if cfg.ProgressStore == model.ProgressStorage {
		progress = service.NewProgressStore(st)
	}
	sessions := runtime.NewManager(cfg.SessionTTL.Value, progress)
	defer sessions.Close()

	src := service.New(
		cfg,
		st,
		courses,
		sessions,
	)

	httpsrv := httpserver.New(
		ctx,
		cfg,
		src,
	)

	// для завершения сервиса ждем сигнал в процесс
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	go ListenForShutdown(ch, cancel)

	return servers.New(servers.ModeHTTP, httpsrv).Run()
}

// Parse выводим каноническую форму манифеста в stdout
func Parse(_ context.Context, file, format string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable read manifest (%s): %w", file, err)
	}

	m, err := manifest.Parse(raw)
	if err != nil {
		return err
	}

	out, err := scorm.EncodeManifest(m, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))

	return err
}

func ListenForShutdown(ch <-chan os.Signal, cancelFunc context.CancelFunc) {
	var done = color.Grey("[OK]")

	<-ch
	cancelFunc()
	logger.Info(context.Background(), "Service is stopped. Logfile is closed.")

	fmt.Printf("%s Service is stopped. Logfile is closed.\n", done)

	time.Sleep(shutdownDelay)
}
