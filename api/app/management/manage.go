// Package management habours the headless admin endpoints.
package management

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pbartela/plantour/api/auth"
	"github.com/pbartela/plantour/config"
	"github.com/pbartela/plantour/sanitize"
	"go.uber.org/zap"
)

// ManagementRessource habours the headless admin endpoints
type ManagementRessource struct {
	log           *zap.Logger
	cfg           config.Configuration
	inviteService Lister
	tourService   Lister
}

func (m *ManagementRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	if m.cfg.ManageEndpoint.CORS != nil {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   m.cfg.ManageEndpoint.CORS.AllowedOrigins,
			AllowedMethods:   m.cfg.ManageEndpoint.CORS.AllowedMethods,
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: m.cfg.ManageEndpoint.CORS.AllowCredentials,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		m.log.Debug(
			"Could not found",
			zap.String("method", r.Method),
			sanitize.UserInputString("path", r.URL.Path),
		)
		w.WriteHeader(404)
	})

	r.Get("/.ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	r.Group(func(gr chi.Router) {
		gr.Use(auth.SessionAuthenticator(m.cfg.Session.Issuer))
		gr.Use(adminOnlyMiddleWare)
		gr.Route("/invitations", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listInvitations)
		})
		gr.Route("/tours", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listTours)
		})
	})
	return r
}

func NewManagementRessource(logger *zap.Logger,
	cfg config.Configuration,
	inviteService Lister,
	tourService Lister) *ManagementRessource {
	return &ManagementRessource{
		log:           logger,
		cfg:           cfg,
		inviteService: inviteService,
		tourService:   tourService,
	}
}

type pagingKey string

var pageSizeKey pagingKey = "page_size"
var pageKey pagingKey = "page"
var queryKey pagingKey = "query"
var sortKey pagingKey = "sort"

func pageinate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p := r.URL.Query().Get("page")

		intOrDefault := func(in string, def int) int {
			if in == "" {
				return def
			}
			i, err := strconv.Atoi(in)
			if err != nil {
				return def
			}
			return i
		}
		ctx = context.WithValue(ctx, pageKey, intOrDefault(p, 1))
		s := r.URL.Query().Get("page_size")
		ctx = context.WithValue(ctx, pageSizeKey, intOrDefault(s, 12))

		q := r.URL.Query().Get("query")
		ctx = context.WithValue(ctx, queryKey, q)

		sort := r.URL.Query().Get("sort")
		ctx = context.WithValue(ctx, sortKey, sort)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminOnlyMiddleWare(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		session, err := auth.FromContext(r.Context())
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if !session.HasRole("admin") {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
