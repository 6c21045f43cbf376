package s3

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type AuthType string

const (
	AuthTypeAccessKey AuthType = "accesskey"
	AuthTypeIAM       AuthType = "iam"
)

const defaultRegion = "us-east-1"

type ConfigField string

const (
	ConfigFieldAuthType    ConfigField = "auth_type"
	ConfigFieldAccessKeyID ConfigField = "access_key_id"
	ConfigFieldSecretKey   ConfigField = "secret_key"
	ConfigFieldRegion      ConfigField = "region"
	ConfigFieldEndpoint    ConfigField = "endpoint"
	ConfigFieldBucket      ConfigField = "bucket"
	ConfigFieldDisableSSL  ConfigField = "disable_ssl"
	ConfigFieldCACert      ConfigField = "ca_cert"
)

// ConfigFieldsAll поля, которые читает хранилище пакетов
var ConfigFieldsAll = []ConfigField{
	ConfigFieldAuthType,
	ConfigFieldAccessKeyID,
	ConfigFieldSecretKey,
	ConfigFieldRegion,
	ConfigFieldEndpoint,
	ConfigFieldBucket,
	ConfigFieldDisableSSL,
	ConfigFieldCACert,
}

var (
	allowedConfigFields = map[ConfigField]struct{}{}
	validate            = validator.New()
)

func init() {
	for _, f := range ConfigFieldsAll {
		allowedConfigFields[f] = struct{}{}
	}
}

type ConfigS3 struct {
	AuthType    AuthType `validate:"oneof=accesskey iam"`
	AccessKeyID string   `validate:"required_if=AuthType accesskey"`
	SecretKey   string   `validate:"required_if=AuthType accesskey"`
	Region      string   `validate:"required"`
	Endpoint    string   `validate:"required"`
	Bucket      string   `validate:"required"`
	DisableSSL  bool
	CACertPEM   string
}

// Host адрес без схемы. Схема http в адресе отключает TLS.
func (c *ConfigS3) Host() (host string, secure bool) {
	secure = !c.DisableSSL
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(c.Endpoint, "/"), secure
	}
	if u.Scheme == "http" {
		secure = false
	}

	return u.Host, secure
}

func (c *ConfigS3) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid s3 config")
	}
	return nil
}

type IConfigS3Builder interface {
	SetKV(store KVStore) IConfigS3Builder
	SetFieldsToUse(fields []ConfigField) IConfigS3Builder
	Refill(key ConfigField, val string) IConfigS3Builder
	Build(ctx context.Context) (config *ConfigS3, err error)
}

// ConfigS3Builder значения из Refill приоритетнее значений внешнего KVStore
type ConfigS3Builder struct {
	fields       []ConfigField
	kvStore      KVStore
	localKVStore *LocalKVStore
}

func NewConfigS3Builder() IConfigS3Builder {
	return &ConfigS3Builder{
		fields:       ConfigFieldsAll,
		localKVStore: NewLocalKVStore(),
	}
}

func (c *ConfigS3Builder) SetKV(store KVStore) IConfigS3Builder {
	c.kvStore = store
	return c
}

func (c *ConfigS3Builder) SetFieldsToUse(fields []ConfigField) IConfigS3Builder {
	c.fields = fields
	return c
}

func (c *ConfigS3Builder) Refill(key ConfigField, val string) IConfigS3Builder {
	_ = c.localKVStore.Put(context.Background(), string(key), val)
	return c
}

func (c *ConfigS3Builder) Build(ctx context.Context) (*ConfigS3, error) {
	vals := make(map[ConfigField]string, len(c.fields))

	for _, field := range c.fields {
		if _, ok := allowedConfigFields[field]; !ok {
			return nil, errors.Errorf("field [%s] not allowed", field)
		}

		if val, err := c.localKVStore.Get(ctx, string(field)); err == nil {
			vals[field] = val
			continue
		}
		if c.kvStore == nil {
			continue
		}

		ok, err := c.kvStore.Check(ctx, string(field))
		if err != nil {
			return nil, errors.Wrapf(err, "check field %s", field)
		}
		if !ok {
			continue
		}
		if vals[field], err = c.kvStore.Get(ctx, string(field)); err != nil {
			return nil, errors.Wrapf(err, "get field %s", field)
		}
	}

	cfg := &ConfigS3{
		AuthType:    AuthType(vals[ConfigFieldAuthType]),
		AccessKeyID: vals[ConfigFieldAccessKeyID],
		SecretKey:   vals[ConfigFieldSecretKey],
		Region:      vals[ConfigFieldRegion],
		Endpoint:    vals[ConfigFieldEndpoint],
		Bucket:      vals[ConfigFieldBucket],
		CACertPEM:   vals[ConfigFieldCACert],
		DisableSSL:  vals[ConfigFieldDisableSSL] == "true",
	}
	if cfg.AuthType == "" {
		cfg.AuthType = AuthTypeAccessKey
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type ConfigDirector interface {
	BuildS3Config(ctx context.Context) (*ConfigS3, error)
}

type DefaultConfigDirector struct {
	builder IConfigS3Builder
	store   KVStore
}

func NewDefaultConfigDirector(configBuilder IConfigS3Builder, store KVStore) ConfigDirector {
	return &DefaultConfigDirector{
		builder: configBuilder,
		store:   store,
	}
}

func (d *DefaultConfigDirector) BuildS3Config(ctx context.Context) (*ConfigS3, error) {
	return d.builder.
		SetKV(d.store).
		SetFieldsToUse(ConfigFieldsAll).
		Build(ctx)
}
