package s3_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/s3"
)

var ctx = context.Background()

func TestConfigS3Builder(t *testing.T) {
	tests := []struct {
		name       string
		initial    map[s3.ConfigField]string
		wantErr    bool
		wantAuth   s3.AuthType
		wantRegion string
	}{
		{
			name: "accesskey",
			initial: map[s3.ConfigField]string{
				s3.ConfigFieldAccessKeyID: "AKID123",
				s3.ConfigFieldSecretKey:   "SECRETXYZ",
				s3.ConfigFieldRegion:      "eu-west-1",
				s3.ConfigFieldEndpoint:    "http://127.0.0.1:9000",
				s3.ConfigFieldBucket:      "courses",
			},
			wantAuth:   s3.AuthTypeAccessKey,
			wantRegion: "eu-west-1",
		},
		{
			name: "iam without keys",
			initial: map[s3.ConfigField]string{
				s3.ConfigFieldAuthType: "iam",
				s3.ConfigFieldEndpoint: "s3.example.com",
				s3.ConfigFieldBucket:   "courses",
			},
			wantAuth:   s3.AuthTypeIAM,
			wantRegion: "us-east-1",
		},
		{
			name: "missing key id",
			initial: map[s3.ConfigField]string{
				s3.ConfigFieldSecretKey: "SEC",
				s3.ConfigFieldEndpoint:  "minio:9000",
				s3.ConfigFieldBucket:    "courses",
			},
			wantErr: true,
		},
		{
			name: "unsupported auth type",
			initial: map[s3.ConfigField]string{
				s3.ConfigFieldAuthType:    "google_auth",
				s3.ConfigFieldAccessKeyID: "A",
				s3.ConfigFieldSecretKey:   "B",
				s3.ConfigFieldEndpoint:    "minio:9000",
				s3.ConfigFieldBucket:      "courses",
			},
			wantErr: true,
		},
		{
			name: "missing bucket",
			initial: map[s3.ConfigField]string{
				s3.ConfigFieldAccessKeyID: "A",
				s3.ConfigFieldSecretKey:   "B",
				s3.ConfigFieldEndpoint:    "minio:9000",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := s3.NewLocalKVStore()
			require.NoError(t, s3.InitializeWithMap(ctx, store, tt.initial))

			cfg, err := s3.NewDefaultConfigDirector(s3.NewConfigS3Builder(), store).BuildS3Config(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, cfg.AuthType)
			assert.Equal(t, tt.wantRegion, cfg.Region)
			assert.Equal(t, "courses", cfg.Bucket)
		})
	}
}

func TestConfigS3Builder_Refill(t *testing.T) {
	t.Parallel()

	store := s3.NewLocalKVStore()
	require.NoError(t, s3.InitializeWithMap(ctx, store, map[s3.ConfigField]string{
		s3.ConfigFieldAccessKeyID: "A",
		s3.ConfigFieldSecretKey:   "B",
		s3.ConfigFieldEndpoint:    "minio:9000",
		s3.ConfigFieldBucket:      "from-store",
	}))

	cfg, err := s3.NewConfigS3Builder().
		SetKV(store).
		Refill(s3.ConfigFieldBucket, "refilled").
		Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refilled", cfg.Bucket)
	assert.Equal(t, "minio:9000", cfg.Endpoint)

	_, err = s3.NewConfigS3Builder().
		SetKV(store).
		SetFieldsToUse([]s3.ConfigField{"password"}).
		Build(ctx)
	assert.Error(t, err)
}

func TestConfigS3_Host(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint   string
		disableSSL bool
		host       string
		secure     bool
	}{
		{"http://127.0.0.1:9000", false, "127.0.0.1:9000", false},
		{"https://s3.example.com", false, "s3.example.com", true},
		{"minio:9000", false, "minio:9000", true},
		{"minio:9000", true, "minio:9000", false},
	}

	for _, tt := range tests {
		cfg := s3.ConfigS3{Endpoint: tt.endpoint, DisableSSL: tt.disableSSL}
		host, secure := cfg.Host()
		assert.Equal(t, tt.host, host, tt.endpoint)
		assert.Equal(t, tt.secure, secure, tt.endpoint)
	}
}
