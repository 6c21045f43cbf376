package service

import (
	"context"

	"github.com/pkg/errors"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/cache"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrUnknownMethod = errors.New("unknown api method")
	ErrBadRequest    = errors.New("bad request")
)

type service struct {
	cfg      model.Config
	storage  storage.Storage
	cache    cache.Cache
	sessions *runtime.Manager
}

// Service interface
type Service interface {
	Alive(ctx context.Context) (out model.AliveOut, err error)
	Cache(ctx context.Context, in model.ServiceCacheIn) (out model.RestStatus, err error)
	Course(ctx context.Context, in model.CourseIn) (out model.CourseOut, err error)
	Launch(ctx context.Context, in model.LaunchIn) (out model.LaunchOut, err error)
	Content(ctx context.Context, in model.ContentIn) (out model.ContentOut, err error)
	SessionStart(ctx context.Context, in model.SessionStartIn) (out model.SessionStartOut, err error)
	SessionCall(ctx context.Context, in model.SessionCallIn) (out model.SessionCallOut, err error)
}

func New(
	cfg model.Config,
	storage storage.Storage,
	cache cache.Cache,
	sessions *runtime.Manager,
) Service {
	return &service{
		cfg,
		storage,
		cache,
		sessions,
	}
}
