package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/cache"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/service"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

var ctx = context.Background()

const courseManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="courseA" xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2">
  <metadata><schema>ADL SCORM</schema><schemaversion>1.2</schemaversion></metadata>
  <organizations default="org1">
    <organization identifier="org1">
      <title>Course A</title>
      <item identifier="i1" identifierref="r1">
        <title>Intro</title>
        <item identifier="i1a" identifierref="r2"><title>Page two</title></item>
      </item>
      <item identifier="i2" identifierref="rX"><title>Broken</title></item>
      <item identifier="i3"><title>Folder</title></item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="r1" type="webcontent" adlcp:scormtype="sco" href="sco/index.html"/>
    <resource identifier="r2" type="webcontent" adlcp:scormtype="asset" href="page two.html"/>
  </resources>
</manifest>`

type fixture struct {
	dir      string
	src      service.Service
	storage  storage.Storage
	sessions *runtime.Manager
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	write(t, dir, "courseA/imsmanifest.xml", courseManifest)
	write(t, dir, "courseA/sco/index.html", "<html>sco</html>")
	write(t, dir, "broken/imsmanifest.xml", "<manifest><organizations></manifest>")

	st, err := storage.NewLocal(dir)
	require.NoError(t, err)

	c := cache.New(ctx, time.Minute, 0)
	sessions := runtime.NewManager(time.Hour, service.NewProgressStore(st))
	t.Cleanup(func() {
		c.Close()
		sessions.Close()
	})

	cfg := model.Config{
		ContentPrefix:   "/courses_files",
		HrefPlaceholder: manifest.DefaultHrefPlaceholder,
		VfsSecretKey:    "secret",
	}

	return &fixture{
		dir:      dir,
		src:      service.New(cfg, st, c, sessions),
		storage:  st,
		sessions: sessions,
	}
}

func TestCourse(t *testing.T) {
	f := newFixture(t)

	out, err := f.src.Course(ctx, model.CourseIn{PackageID: "courseA"})
	require.NoError(t, err)
	require.NotNil(t, out.Manifest)
	assert.Equal(t, "1.2", out.Manifest.Metadata.SchemaVersion)
	assert.Equal(t, "org1", out.Navigation.Organization)
	assert.Equal(t, "i1", out.Navigation.StartItem)
	assert.Equal(t, "/courses_files/courseA/sco/index.html", out.Navigation.Start)
	require.Len(t, out.Navigation.Items, 3)
	assert.Equal(t, "/courses_files/courseA/page%20two.html", out.Navigation.Items[0].Items[0].URL)
	assert.False(t, out.Navigation.Items[1].Enabled)

	require.Len(t, out.Issues, 1)
	assert.Equal(t, manifest.IssueUnresolvedReference, out.Issues[0].Kind)

	// повторный запрос из кеша: изменения файла не видны до сброса
	write(t, f.dir, "courseA/imsmanifest.xml", "<manifest/>")
	again, err := f.src.Course(ctx, model.CourseIn{PackageID: "courseA"})
	require.NoError(t, err)
	assert.Same(t, out.Manifest, again.Manifest)

	res, err := f.src.Cache(ctx, model.ServiceCacheIn{Link: "courseA"})
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 objects in cache", res.Description)

	fresh, err := f.src.Course(ctx, model.CourseIn{PackageID: "courseA"})
	require.NoError(t, err)
	assert.Empty(t, fresh.Manifest.Organizations.Organization)
}

func TestCourse_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.src.Course(ctx, model.CourseIn{PackageID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// ошибка разбора не подменяется пустым манифестом
	_, err = f.src.Course(ctx, model.CourseIn{PackageID: "broken"})
	assert.ErrorIs(t, err, manifest.ErrXMLSyntax)

	_, err = f.src.Course(ctx, model.CourseIn{PackageID: ".."})
	assert.ErrorIs(t, err, service.ErrBadRequest)
}

func TestLaunch(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		item    string
		wantURL string
		wantErr error
	}{
		{name: "start item", item: "", wantURL: "/courses_files/courseA/sco/index.html"},
		{name: "nested", item: "i1a", wantURL: "/courses_files/courseA/page%20two.html"},
		{name: "unknown", item: "nope", wantErr: service.ErrItemNotFound},
		{name: "unresolved", item: "i2", wantErr: manifest.ErrUnresolvedReference},
		{name: "no reference", item: "i3", wantErr: manifest.ErrEmptyReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.src.Launch(ctx, model.LaunchIn{PackageID: "courseA", ItemID: tt.item})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, out.URL)
			assert.True(t, out.Item.Enabled)
		})
	}

	out, err := f.src.Launch(ctx, model.LaunchIn{PackageID: "courseA", ItemID: "i1"})
	require.NoError(t, err)
	assert.Equal(t, "sco", out.Resource.ScormType)
	assert.Equal(t, "i1a", out.Next)
	assert.Empty(t, out.Prev)
}

func TestContent(t *testing.T) {
	f := newFixture(t)

	out, err := f.src.Content(ctx, model.ContentIn{PackageID: "courseA", Path: "sco/index.html"})
	require.NoError(t, err)
	assert.Equal(t, "<html>sco</html>", string(out.Body))
	assert.Contains(t, out.MimeType, "text/html")

	_, err = f.src.Content(ctx, model.ContentIn{PackageID: "courseA", Path: "../broken/imsmanifest.xml"})
	assert.ErrorIs(t, err, service.ErrBadRequest)

	// прогресс учащихся не раздается как содержимое пакета
	write(t, f.dir, "courseA/.progress/s1.json", `{"cmi":{}}`)
	_, err = f.src.Content(ctx, model.ContentIn{PackageID: "courseA", Path: ".progress/s1.json"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func call(t *testing.T, src service.Service, id, method string, args ...string) model.SessionCallOut {
	t.Helper()
	out, err := src.SessionCall(ctx, model.SessionCallIn{SessionID: id, Method: method, Args: args})
	require.NoError(t, err)
	return out
}

func TestSession(t *testing.T) {
	f := newFixture(t)

	started, err := f.src.SessionStart(ctx, model.SessionStartIn{PackageID: "courseA", LearnerID: "u1", LearnerName: "Doe, Jane"})
	require.NoError(t, err)
	require.NotEmpty(t, started.SessionID)
	assert.Equal(t, "not attempted", started.Progress.LessonStatus)
	assert.Equal(t, "ab-initio", started.Progress.Entry)

	id := started.SessionID
	assert.Equal(t, "true", call(t, f.src, id, "LMSInitialize", "").Result)
	assert.Equal(t, "u1", call(t, f.src, id, "LMSGetValue", "cmi.core.student_id").Result)
	assert.Equal(t, "true", call(t, f.src, id, "LMSSetValue", "cmi.core.lesson_location", "page-3").Result)
	assert.Equal(t, "true", call(t, f.src, id, "LMSSetValue", "cmi.core.exit", "suspend").Result)
	assert.Equal(t, "true", call(t, f.src, id, "LMSSetValue", "cmi.core.session_time", "0000:10:00").Result)

	bad := call(t, f.src, id, "LMSSetValue", "cmi.core.total_time", "0000:01:00")
	assert.Equal(t, "false", bad.Result)
	assert.Equal(t, int(runtime.ElementReadOnly), bad.Error)
	assert.NotEmpty(t, bad.ErrorString)

	assert.Equal(t, "true", call(t, f.src, id, "LMSCommit", "").Result)
	_, err = os.Stat(filepath.Join(f.dir, "courseA", ".progress", id+".json"))
	require.NoError(t, err)

	finished := call(t, f.src, id, "LMSFinish", "")
	assert.Equal(t, "true", finished.Result)
	assert.Equal(t, "completed", finished.Progress.LessonStatus)
	assert.Equal(t, "0000:10:00.00", finished.Progress.TotalTime)

	// продолжение в новом процессе: сохраненный прогресс читается из хранилища
	other := runtime.NewManager(time.Hour, service.NewProgressStore(f.storage))
	defer other.Close()
	resumed, err := other.Start(ctx, "courseA", id)
	require.NoError(t, err)
	p := resumed.Progress()
	assert.Equal(t, "resume", p.Entry)
	assert.Equal(t, "page-3", p.LessonLocation)
	assert.Equal(t, "completed", p.LessonStatus)
}

func TestSession_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.src.SessionStart(ctx, model.SessionStartIn{PackageID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = f.src.SessionStart(ctx, model.SessionStartIn{PackageID: "courseA", SessionID: "unknown"})
	assert.ErrorIs(t, err, runtime.ErrSnapshotNotFound)

	_, err = f.src.SessionStart(ctx, model.SessionStartIn{PackageID: "courseA", SessionID: "../x"})
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = f.src.SessionCall(ctx, model.SessionCallIn{SessionID: "nope", Method: "LMSInitialize"})
	assert.ErrorIs(t, err, runtime.ErrSessionNotFound)

	_, err = f.src.SessionCall(ctx, model.SessionCallIn{SessionID: "nope", Method: "Eval"})
	assert.ErrorIs(t, err, service.ErrUnknownMethod)
}

func TestAlive(t *testing.T) {
	f := newFixture(t)

	_, err := f.src.Course(ctx, model.CourseIn{PackageID: "courseA"})
	require.NoError(t, err)
	_, err = f.src.Course(ctx, model.CourseIn{PackageID: "missing"})
	require.Error(t, err)

	out, err := f.src.Alive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Courses)
	assert.Equal(t, 0, out.Sessions)

	cfg, ok := out.Config.(model.Config)
	require.True(t, ok)
	assert.Equal(t, "s****t", cfg.VfsSecretKey)
}
