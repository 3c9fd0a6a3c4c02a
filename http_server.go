package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/youtube-grid/grid"
	"github.com/gosuda/youtube-grid/player"
	"github.com/gosuda/youtube-grid/reference"
)

// HTTPServer serves the page and one websocket session per page view.
type HTTPServer struct {
	name     string
	fallback time.Duration
	upgrader websocket.Upgrader
}

func NewHTTPServer(cfg Config) *HTTPServer {
	return &HTTPServer{
		name:     cfg.Name,
		fallback: cfg.MountFallback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router exposes the handler used for both relay and local serving.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWebSocket)
	return r
}

func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Name        string
		Nonce       string
		Input       string
		MinColumns  int
		MaxColumns  int
		Columns     int
		ColumnRange []int
		Embeds      []embed
	}{
		Name:       s.name,
		Nonce:      nonceFromContext(r.Context()),
		Input:      reference.DefaultInput,
		MinColumns: grid.MinColumns,
		MaxColumns: grid.MaxColumns,
		Columns:    grid.DefaultColumns,
	}
	for n := grid.MinColumns; n <= grid.MaxColumns; n++ {
		data.ColumnRange = append(data.ColumnRange, n)
	}
	data.Embeds = embedsFor(reference.Parse(reference.DefaultInput))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("[ytgrid] render index")
	}
}

// embed is one slot of the grid shown when scripts are disabled.
type embed struct {
	Index int
	Src   string
}

func embedsFor(slots [grid.Slots]string) []embed {
	out := make([]embed, 0, len(slots))
	for i, id := range slots {
		e := embed{Index: i}
		if id != "" {
			e.Src = reference.EmbedURL(id)
		}
		out = append(out, e)
	}
	return out
}

func (s *HTTPServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("[ytgrid] upgrade websocket")
		return
	}

	id := uuid.NewString()
	logger := log.With().Str("session", id).Logger()
	client := NewClient(conn, logger)

	var opts []player.Option
	if s.fallback > 0 {
		opts = append(opts, player.WithMountFallback(s.fallback))
	}
	client.session = NewSession(client.push, remoteFactory{push: client.push}, logger, opts...)
	logger.Info().Str("remote", r.RemoteAddr).Msg("[ytgrid] session opened")

	go client.writeLoop()
	client.session.Start()
	client.readLoop()
	logger.Info().Msg("[ytgrid] session closed")
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("remote_addr", r.RemoteAddr).
			Msg("[ytgrid] http request")
	})
}

// stripPeer removes the relay's /peer/{token} prefix.
func stripPeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/peer/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			next.ServeHTTP(w, r)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			r2 := r.Clone(r.Context())
			r2.URL.Path = rest[i:]
			next.ServeHTTP(w, r2)
			return
		}
		// no suffix after the token: redirect so relative URLs resolve
		http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
	})
}
