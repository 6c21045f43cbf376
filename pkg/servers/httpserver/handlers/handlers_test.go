package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/service"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: &manifest.XMLSyntaxError{Err: errors.New("unexpected EOF")}, want: http.StatusUnprocessableEntity},
		{err: errors.Wrap(manifest.ErrUnresolvedReference, "rX"), want: http.StatusConflict},
		{err: manifest.ErrEmptyReference, want: http.StatusConflict},
		{err: errors.Wrap(storage.ErrNotFound, "a/imsmanifest.xml"), want: http.StatusNotFound},
		{err: service.ErrItemNotFound, want: http.StatusNotFound},
		{err: runtime.ErrSessionNotFound, want: http.StatusNotFound},
		{err: utils.ErrUnsafePath, want: http.StatusBadRequest},
		{err: context.Canceled, want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	args, err := decodeArgs([]byte(`{"args":["cmi.core.score.raw", 85.5, true, null]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"cmi.core.score.raw", "85.5", "true", ""}, args)

	args, err = decodeArgs([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = decodeArgs([]byte(`{"args":[[1]]}`))
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = decodeArgs([]byte(`{"args":`))
	assert.ErrorIs(t, err, service.ErrBadRequest)
}
