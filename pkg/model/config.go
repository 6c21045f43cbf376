package model

import (
	"context"

	"github.com/go-playground/validator/v10"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/s3"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

var validate = validator.New()

// куда сохраняется прогресс учащихся
const (
	ProgressStorage = "storage"
	ProgressMemory  = "memory"
)

type Config struct {
	Namespace string `envconfig:"NAMESPACE" toml:"NAMESPACE" default:"scorm"`
	PortApp   string `envconfig:"PORT_APP" toml:"PORT_APP" default:"8080"`

	// Player
	ContentPrefix   string `envconfig:"CONTENT_PREFIX" toml:"CONTENT_PREFIX" default:"/courses_files" description:"адрес, под которым раздаются файлы пакетов"`
	HrefPlaceholder string `envconfig:"HREF_PLACEHOLDER" toml:"HREF_PLACEHOLDER" default:"sin valor" description:"значение href ресурса без адреса"`

	// Storage
	StorageKind string `envconfig:"STORAGE_KIND" toml:"STORAGE_KIND" default:"local" validate:"oneof=local s3"`
	StorageDir  string `envconfig:"STORAGE_DIR" toml:"STORAGE_DIR" default:"courses" validate:"required_if=StorageKind local"`

	// VFS
	VfsAuthType    string `envconfig:"VFS_AUTH_TYPE" toml:"VFS_AUTH_TYPE" default:"accesskey"`
	VfsBucket      string `envconfig:"VFS_BUCKET" toml:"VFS_BUCKET" default:"courses"`
	VfsEndpoint    string `envconfig:"VFS_ENDPOINT" toml:"VFS_ENDPOINT" default:"http://127.0.0.1:9000"`
	VfsAccessKeyID string `envconfig:"VFS_ACCESS_KEY_ID" toml:"VFS_ACCESS_KEY_ID" default:""`
	VfsSecretKey   string `envconfig:"VFS_SECRET_KEY" toml:"VFS_SECRET_KEY" default:""`
	VfsRegion      string `envconfig:"VFS_REGION" toml:"VFS_REGION" default:""`
	VfsCACert      string `envconfig:"VFS_CA_CERT" toml:"VFS_CA_CERT" default:""`

	// Cache
	CacheTTL      Duration `envconfig:"CACHE_TTL" toml:"CACHE_TTL" default:"10m" description:"интервал, после которого манифест курса перечитывается из хранилища"`
	CacheIdle     Duration `envconfig:"CACHE_IDLE" toml:"CACHE_IDLE" default:"1d" description:"курс без обращений дольше этого интервала удаляется из кеша"`
	SessionTTL    Duration `envconfig:"SESSION_TTL" toml:"SESSION_TTL" default:"2h" description:"время жизни неактивной сессии учащегося"`
	ProgressStore string   `envconfig:"PROGRESS_STORE" toml:"PROGRESS_STORE" default:"storage" validate:"oneof=storage memory"`

	// Logger
	LogsLevel      string `envconfig:"LOGS_LEVEL" toml:"LOGS_LEVEL" default:"info"`
	LogsFile       string `envconfig:"LOGS_FILE" toml:"LOGS_FILE" default:""`
	LogsMaxSize    Int    `envconfig:"LOGS_MAX_SIZE" toml:"LOGS_MAX_SIZE" default:"100" description:"размер файла лога в мегабайтах до ротации"`
	LogsMaxBackups Int    `envconfig:"LOGS_MAX_BACKUPS" toml:"LOGS_MAX_BACKUPS" default:"5"`
	LogsMaxAge     Int    `envconfig:"LOGS_MAX_AGE" toml:"LOGS_MAX_AGE" default:"30" description:"срок хранения файлов лога в днях"`

	MaxRequestBodySize Int      `envconfig:"MAX_REQUEST_BODY_SIZE" toml:"MAX_REQUEST_BODY_SIZE" default:"1048576"`
	ReadTimeout        Duration `envconfig:"READ_TIMEOUT" toml:"READ_TIMEOUT" default:"10s"`
	WriteTimeout       Duration `envconfig:"WRITE_TIMEOUT" toml:"WRITE_TIMEOUT" default:"30s"`
	Debug              Bool     `envconfig:"DEBUG" toml:"DEBUG" default:"false"`
}

// Validate проверка значений, которые нельзя исправить значениями по-умолчанию
func (c *Config) Validate(ctx context.Context) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.StorageKind == storage.KindS3 {
		_, err := c.S3Config(ctx)
		return err
	}

	return nil
}

// S3Config настройки MinIO из переменных VFS_*
func (c *Config) S3Config(ctx context.Context) (*s3.ConfigS3, error) {
	kv := s3.NewLocalKVStore()
	err := s3.InitializeWithMap(ctx, kv, map[s3.ConfigField]string{
		s3.ConfigFieldAuthType:    c.VfsAuthType,
		s3.ConfigFieldAccessKeyID: c.VfsAccessKeyID,
		s3.ConfigFieldSecretKey:   c.VfsSecretKey,
		s3.ConfigFieldRegion:      c.VfsRegion,
		s3.ConfigFieldEndpoint:    c.VfsEndpoint,
		s3.ConfigFieldBucket:      c.VfsBucket,
		s3.ConfigFieldCACert:      c.VfsCACert,
	})
	if err != nil {
		return nil, err
	}

	return s3.NewDefaultConfigDirector(s3.NewConfigS3Builder(), kv).BuildS3Config(ctx)
}

func (c *Config) StorageConfig(ctx context.Context) (cfg storage.Config, err error) {
	cfg = storage.Config{
		Kind: c.StorageKind,
		Dir:  c.StorageDir,
	}
	if c.StorageKind == storage.KindS3 {
		cfg.S3, err = c.S3Config(ctx)
	}

	return cfg, err
}
