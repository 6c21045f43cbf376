package httpserver

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/navigation"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/servers/httpserver/handlers"
)

type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

type Routes []Route

func (h *httpserver) NewRouter() *mux.Router {
	router := mux.NewRouter()
	handler := handlers.New(h.src, h.cfg)

	prefix := h.cfg.ContentPrefix
	if prefix == "" {
		prefix = navigation.DefaultContentPrefix
	}
	prefix = navigation.ContentPath(prefix)

	var routes = Routes{
		Route{"Alive", "GET", "/alive", handler.Alive},
		Route{"Cache", "GET", "/tools/cacheclear", handler.Cache},

		Route{"Course", "GET", "/course/{package}", handler.Course},
		Route{"Manifest", "GET", "/course/{package}/manifest", handler.Manifest},
		Route{"Launch", "GET", "/course/{package}/launch", handler.Launch},
		Route{"Launch", "GET", "/course/{package}/launch/{item}", handler.Launch},
		Route{"Content", "GET,HEAD", prefix + "/{package}/{path:.+}", handler.Content},

		Route{"SessionStart", "POST", "/course/{package}/session", handler.SessionStart},
		Route{"SessionCall", "POST", "/session/{session}/{call}", handler.SessionCall},
	}

	if h.cfg.Debug.Value {
		routes = append(routes,
			Route{"pprofIndex", "GET", "/debug/pprof/", pprof.Index},
			Route{"pprofIndex", "GET", "/debug/pprof/cmdline", pprof.Cmdline},
			Route{"pprofIndex", "GET", "/debug/pprof/profile", pprof.Profile},
			Route{"pprofIndex", "GET", "/debug/pprof/symbol", pprof.Symbol},
			Route{"pprofIndex", "GET", "/debug/pprof/trace", pprof.Trace},
		)
	}

	for _, route := range routes {
		var handler http.Handler
		handler = route.HandlerFunc
		handler = h.MiddleLogger(handler, route.Name)

		for _, v := range strings.Split(route.Method, ",") {
			router.
				Methods(v).
				Path(route.Pattern).
				Name(route.Name).
				Handler(handler)
		}
	}

	router.Handle("/metrics", promhttp.Handler()).Methods("GET").Name("Metrics")

	router.Use(h.Recover)
	router.Use(logger.HTTPMiddleware)

	return router
}
