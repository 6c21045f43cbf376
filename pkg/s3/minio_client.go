package s3

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

var ErrConfigNotSet = errors.New("s3 config is not set")

// ClientMinioBuilder строит клиент MinIO по ConfigS3
type ClientMinioBuilder struct {
	config                *ConfigS3
	httpTransport         http.RoundTripper
	sessionNClientCreator SessionClientCreator[*minio.Client, *MinioOptionsExtended]
}

type MinioOptionsExtended struct {
	minio.Options
	Endpoint string
}

func NewClientMinioBuilder() IClientS3Builder[*minio.Client, *MinioOptionsExtended] {
	return &ClientMinioBuilder{
		httpTransport: http.DefaultTransport,
		sessionNClientCreator: func(opts *MinioOptionsExtended) (*minio.Client, error) {
			return minio.New(opts.Endpoint, &opts.Options)
		},
	}
}

func (b *ClientMinioBuilder) SetConfig(config *ConfigS3) IClientS3Builder[*minio.Client, *MinioOptionsExtended] {
	b.config = config
	return b
}

func (b *ClientMinioBuilder) SetSessionNClientCreator(
	creator SessionClientCreator[*minio.Client, *MinioOptionsExtended],
) IClientS3Builder[*minio.Client, *MinioOptionsExtended] {
	b.sessionNClientCreator = creator
	return b
}

func (b *ClientMinioBuilder) Build(_ context.Context) (*ClientS3Result[*minio.Client], error) {
	if b.config == nil {
		return nil, ErrConfigNotSet
	}

	host, secure := b.config.Host()
	options := &MinioOptionsExtended{Endpoint: host}
	options.Secure = secure
	options.Region = b.config.Region
	options.Transport = b.httpTransport

	switch b.config.AuthType {
	case AuthTypeIAM:
		options.Creds = credentials.NewIAM("")
	default:
		options.Creds = credentials.NewStaticV4(b.config.AccessKeyID, b.config.SecretKey, "")
	}

	if b.config.CACertPEM != "" {
		options.Transport = caTransport(b.config.CACertPEM)
	}

	client, err := b.sessionNClientCreator(options)
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	return &ClientS3Result[*minio.Client]{
		Client:   client,
		Endpoint: host,
		Bucket:   b.config.Bucket,
	}, nil
}

// caTransport транспорт с доверенным CA из PEM
func caTransport(caPEM string) http.RoundTripper {
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM([]byte(caPEM))

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		},
	}
}
