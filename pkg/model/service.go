package model

import (
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/navigation"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
)

type ServiceCacheIn struct {
	Link string `json:"link"`
}

type AliveOut struct {
	Courses  int         `json:"courses"`
	Sessions int         `json:"sessions"`
	Config   interface{} `json:"config"`
}

type CourseIn struct {
	PackageID string `json:"package"`
}

type CourseOut struct {
	Manifest   *manifest.Manifest `json:"manifest"`
	Navigation navigation.Tree    `json:"navigation"`
	Issues     []manifest.Issue   `json:"issues,omitempty"`
}

type LaunchIn struct {
	PackageID string `json:"package"`
	ItemID    string `json:"item"`
}

type LaunchOut struct {
	Item     navigation.Entry  `json:"item"`
	Resource manifest.Resource `json:"resource"`
	URL      string            `json:"url"`
	Next     string            `json:"next,omitempty"`
	Prev     string            `json:"prev,omitempty"`
}

type ContentIn struct {
	PackageID string `json:"package"`
	Path      string `json:"path"`
}

type ContentOut struct {
	Body     []byte `json:"body"`
	MimeType string `json:"mime_type"`
}

type SessionStartIn struct {
	PackageID   string `json:"package"`
	SessionID   string `json:"session,omitempty"`
	LearnerID   string `json:"learner_id,omitempty"`
	LearnerName string `json:"learner_name,omitempty"`
	LaunchData  string `json:"launch_data,omitempty"`
}

type SessionStartOut struct {
	SessionID string           `json:"session"`
	PackageID string           `json:"package"`
	Progress  runtime.Progress `json:"progress"`
}

// SessionCallIn вызов метода API учебного объекта: LMSInitialize, LMSGetValue, LMSSetValue...
type SessionCallIn struct {
	SessionID string   `json:"session"`
	Method    string   `json:"method"`
	Args      []string `json:"args"`
}

type SessionCallOut struct {
	Result      string           `json:"result"`
	Error       int              `json:"error"`
	ErrorString string           `json:"error_string,omitempty"`
	Progress    runtime.Progress `json:"progress"`
}
