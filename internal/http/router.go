package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterCheckinRoutes 注册签到相关路由
func (r *Router) RegisterCheckinRoutes(h *CheckinHandler) {
	// list / create
	r.Handle("/api/checkins", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListCheckins(w, req)
		case http.MethodPost:
			h.CreateCheckin(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// export（精确匹配优先于下面的前缀路由）
	r.Handle("/api/checkins/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ExportCheckins(w, req)
	})

	// checkins/{id}
	r.Handle("/api/checkins/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/api/checkins/")
		if id == "" || strings.Contains(id, "/") {
			writeJSON(w, http.StatusNotFound, Fail("Not found"))
			return
		}
		h.GetCheckin(w, req, id)
	})
}

// RegisterProfileRoutes 注册档案路由
func (r *Router) RegisterProfileRoutes(h *ProfileHandler) {
	r.Handle("/api/profile", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.GetProfile(w, req)
		case http.MethodPut:
			h.UpdateProfile(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterHealthRoutes 注册健康检查路由
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
