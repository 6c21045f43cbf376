// запускаем указанные виды из поддерживаемых серверов
package servers

import (
	"strings"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/servers/httpserver"
)

const ModeHTTP = "http"

type servers struct {
	mode       string
	httpserver httpserver.Server
}

type Servers interface {
	Run() error
}

// запускаем указанные севрера
func (s *servers) Run() error {
	if strings.Contains(s.mode, ModeHTTP) {
		return s.httpserver.Run()
	}

	return nil
}

func New(
	mode string,
	httpserver httpserver.Server,
) Servers {
	return &servers{
		mode,
		httpserver,
	}
}
