package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
)

var apiMethods = map[string]bool{
	"LMSInitialize":     true,
	"LMSFinish":         true,
	"LMSGetValue":       true,
	"LMSSetValue":       true,
	"LMSCommit":         true,
	"LMSGetLastError":   true,
	"LMSGetErrorString": true,
	"LMSGetDiagnostic":  true,
}

// SessionStart новая сессия учащегося или продолжение сохраненной
func (s *service) SessionStart(ctx context.Context, in model.SessionStartIn) (out model.SessionStartOut, err error) {
	defer s.monitoringTimingService("SessionStart", time.Now())
	defer func() { s.monitoringError("SessionStart", err) }()

	// сессия открывается только для пакета с читаемым манифестом
	if _, err = s.course(ctx, in.PackageID); err != nil {
		return out, err
	}
	if in.SessionID != "" {
		if _, err = progressPath(in.PackageID, in.SessionID); err != nil {
			return out, err
		}
	}

	ctx = logger.SetPackageIDCtx(ctx, in.PackageID)
	sess, err := s.sessions.Start(ctx, in.PackageID, in.SessionID,
		runtime.WithLearner(in.LearnerID, in.LearnerName),
		runtime.WithLaunchData(in.LaunchData),
		s.observe(ctx),
	)
	if err != nil {
		return out, err
	}

	out.SessionID = sess.ID()
	out.PackageID = sess.PackageID()
	out.Progress = sess.Progress()

	logger.Info(logger.SetSessionIDCtx(ctx, sess.ID()), "session started",
		zap.Bool("resume", in.SessionID != ""),
		zap.String("entry", out.Progress.Entry))

	return out, nil
}

// SessionCall вызов метода API в активной сессии
func (s *service) SessionCall(ctx context.Context, in model.SessionCallIn) (out model.SessionCallOut, err error) {
	defer s.monitoringTimingService("SessionCall", time.Now())
	defer func() { s.monitoringError("SessionCall", err) }()

	if !apiMethods[in.Method] {
		return out, errors.Wrap(ErrUnknownMethod, in.Method)
	}

	sess, err := s.sessions.Get(in.SessionID)
	if err != nil {
		return out, err
	}

	ctx = logger.SetSessionIDCtx(logger.SetPackageIDCtx(ctx, sess.PackageID()), sess.ID())
	result, code := sess.Call(ctx, in.Method, in.Args...)

	out.Result = result
	out.Error = int(code)
	if code != runtime.NoError {
		out.ErrorString = code.Message()
		logger.Debug(ctx, "api call failed",
			zap.String("method", in.Method),
			zap.Strings("args", in.Args),
			zap.Int("code", int(code)))
	}
	out.Progress = sess.Progress()

	return out, nil
}

// observe подписка на события сессии: статус урока в метрики, сохранение и завершение в лог
func (s *service) observe(ctx context.Context) runtime.Option {
	return func(sess *runtime.Session) {
		ctx := logger.SetSessionIDCtx(ctx, sess.ID())

		sess.On("LMSSetValue.cmi.core.lesson_status", func(e runtime.Event) {
			if e.Error == runtime.NoError {
				s.monitoringLessonStatus(e.Value)
			}
		})
		sess.On("LMSCommit", func(e runtime.Event) {
			if e.Error != runtime.NoError {
				logger.Warn(ctx, "progress not saved", zap.Int("code", int(e.Error)))
			}
		})
		sess.On("LMSFinish", func(e runtime.Event) {
			p := sess.Progress()
			logger.Info(ctx, "session finished",
				zap.String("lesson_status", p.LessonStatus),
				zap.String("total_time", p.TotalTime),
				zap.Int("code", int(e.Error)))
		})
	}
}
