package model_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/s3"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

var ctx = context.Background()

func TestDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "10s", want: 10 * time.Second},
		{in: "5", want: 5 * time.Minute},
		{in: "1d", want: 24 * time.Hour},
		{in: "1w2h", want: 7*24*time.Hour + 2*time.Hour},
		{in: "", want: 0},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d model.Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Value)
		})
	}
}

func TestScalars(t *testing.T) {
	var b model.Bool
	require.NoError(t, b.UnmarshalText([]byte("TRUE")))
	assert.True(t, b.Value)
	require.NoError(t, b.UnmarshalText([]byte("no")))
	assert.False(t, b.Value)

	var i model.Int
	require.NoError(t, i.UnmarshalText([]byte(" 42 ")))
	assert.Equal(t, 42, i.Value)
	assert.Error(t, i.UnmarshalText([]byte("4x")))

	// в alive конфигурация отдается строками
	out, err := json.Marshal(struct {
		D model.Duration
		I model.Int
	}{model.Duration{Value: 90 * time.Second}, model.Int{Value: 7}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"D":"1m30s","I":"7"}`, string(out))
}

func TestConfigValidate(t *testing.T) {
	cfg := model.Config{StorageKind: "local", StorageDir: "courses", ProgressStore: "storage"}
	assert.NoError(t, cfg.Validate(ctx))

	cfg.StorageKind = "ftp"
	assert.Error(t, cfg.Validate(ctx))

	cfg = model.Config{StorageKind: "s3", ProgressStore: "memory", VfsEndpoint: "http://127.0.0.1:9000", VfsBucket: "courses"}
	assert.Error(t, cfg.Validate(ctx), "нет ключей доступа")

	cfg.VfsAccessKeyID = "key"
	cfg.VfsSecretKey = "secret"
	assert.NoError(t, cfg.Validate(ctx))
}

func TestStorageConfig(t *testing.T) {
	cfg := model.Config{
		StorageKind:    "s3",
		VfsEndpoint:    "http://127.0.0.1:9000",
		VfsBucket:      "courses",
		VfsAccessKeyID: "key",
		VfsSecretKey:   "secret",
	}

	sc, err := cfg.StorageConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.KindS3, sc.Kind)
	require.NotNil(t, sc.S3)
	assert.Equal(t, s3.AuthTypeAccessKey, sc.S3.AuthType)
	assert.Equal(t, "us-east-1", sc.S3.Region)
	assert.Equal(t, "courses", sc.S3.Bucket)

	cfg = model.Config{StorageKind: "local", StorageDir: "/data"}
	sc, err = cfg.StorageConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, sc.S3)
	assert.Equal(t, "/data", sc.Dir)
}
