package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/navigation"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

// course разобранный пакет, хранится в кеше
type course struct {
	manifest *manifest.Manifest
	tree     navigation.Tree
	issues   []manifest.Issue
}

// Course манифест пакета и дерево навигации по организации по-умолчанию
func (s *service) Course(ctx context.Context, in model.CourseIn) (out model.CourseOut, err error) {
	defer s.monitoringTimingService("Course", time.Now())
	defer func() { s.monitoringError("Course", err) }()

	c, err := s.course(ctx, in.PackageID)
	if err != nil {
		return out, err
	}

	out.Manifest = c.manifest
	out.Navigation = c.tree
	out.Issues = c.issues

	return out, nil
}

func (s *service) course(ctx context.Context, packageID string) (*course, error) {
	if _, err := storage.PackagePath(packageID, storage.ManifestName); err != nil {
		return nil, errors.Wrap(ErrBadRequest, err.Error())
	}

	value, err := s.cache.Get(ctx, packageID, func(ctx context.Context) (interface{}, error) {
		return s.loadCourse(ctx, packageID)
	})
	if err != nil {
		return nil, err
	}
	s.monitoringCourses()

	c, ok := value.(*course)
	if !ok {
		return nil, errors.Errorf("unexpected cache value %T for %s", value, packageID)
	}

	return c, nil
}

// loadCourse чтение и разбор манифеста. Ошибка разбора возвращается как есть,
// пустой манифест вместо нее не подставляется.
func (s *service) loadCourse(ctx context.Context, packageID string) (*course, error) {
	ctx = logger.SetPackageIDCtx(ctx, packageID)
	start := time.Now()

	raw, err := storage.FetchManifest(ctx, s.storage, packageID)
	if err != nil {
		return nil, err
	}

	opts := []manifest.Option{manifest.WithHrefPlaceholder(s.cfg.HrefPlaceholder)}
	m, err := manifest.Parse(raw, opts...)
	if err != nil {
		logger.Warn(ctx, "manifest parse failed", zap.Error(err))
		return nil, errors.Wrapf(err, "parse manifest of %s", packageID)
	}

	issues := manifest.Inspect(m, opts...)
	for _, issue := range issues {
		s.monitoringIssue(string(issue.Kind))
		logger.Warn(ctx, "manifest issue", zap.String("issue", issue.String()))
	}

	c := &course{
		manifest: m,
		tree:     navigation.Build(m, packageID, s.cfg.ContentPrefix),
		issues:   issues,
	}

	logger.Info(ctx, "course loaded",
		zap.Int("organizations", len(m.Organizations.Organization)),
		zap.Int("resources", len(m.Resources.Resource)),
		zap.Int("issues", len(issues)),
		zap.Duration("timing", time.Since(start)))

	return c, nil
}
