package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchintel/brief-cli/internal/draft"
	"github.com/pitchintel/brief-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the brief generation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildRouter assembles the REST surface. Owner scoping comes from the
// X-User-ID header; an empty header disables it.
func buildRouter(env *briefEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := env.Store.Ping(req.Context()); err != nil {
			zap.L().Warn("health check: store unreachable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		lookback := 24
		if v := req.URL.Query().Get("lookback_hours"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid lookback_hours")
				return
			}
			lookback = n
		}
		snap, err := env.Collector.Collect(req.Context(), lookback)
		if err != nil {
			zap.L().Error("metrics collection failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "metrics collection failed")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/briefs", func(w http.ResponseWriter, req *http.Request) {
			var br model.BriefRequest
			if err := json.NewDecoder(req.Body).Decode(&br); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if owner := ownerID(req); owner != "" && br.UserID == "" {
				br.UserID = owner
			}

			brief, err := env.Pipeline.CreateBrief(req.Context(), br)
			if err != nil {
				if eris.Is(err, model.ErrValidation) {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				zap.L().Error("brief creation failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "brief creation failed")
				return
			}
			writeJSON(w, http.StatusCreated, brief)
		})

		r.Get("/briefs", func(w http.ResponseWriter, req *http.Request) {
			briefs, err := env.Store.ListBriefs(req.Context(), ownerID(req))
			if err != nil {
				zap.L().Error("list briefs failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list briefs failed")
				return
			}
			if briefs == nil {
				briefs = []model.Brief{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"briefs": briefs})
		})

		r.Get("/briefs/{id}", func(w http.ResponseWriter, req *http.Request) {
			brief, err := env.Store.GetBrief(req.Context(), chi.URLParam(req, "id"), ownerID(req))
			if err != nil {
				zap.L().Error("get brief failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "get brief failed")
				return
			}
			if brief == nil {
				writeError(w, http.StatusNotFound, "brief not found")
				return
			}
			writeJSON(w, http.StatusOK, brief)
		})

		r.Patch("/briefs/{id}", func(w http.ResponseWriter, req *http.Request) {
			var update model.BriefUpdate
			if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			brief, err := env.Store.UpdateBrief(req.Context(), chi.URLParam(req, "id"), update, ownerID(req))
			if err != nil {
				switch {
				case strings.Contains(err.Error(), "no fields"):
					writeError(w, http.StatusBadRequest, "no fields to update")
				case strings.Contains(err.Error(), "not found"):
					writeError(w, http.StatusNotFound, "brief not found")
				default:
					zap.L().Error("update brief failed", zap.Error(err))
					writeError(w, http.StatusInternalServerError, "update brief failed")
				}
				return
			}
			writeJSON(w, http.StatusOK, brief)
		})

		r.Delete("/briefs/{id}", func(w http.ResponseWriter, req *http.Request) {
			err := env.Store.DeleteBrief(req.Context(), chi.URLParam(req, "id"), ownerID(req))
			if err != nil {
				if strings.Contains(err.Error(), "not found") {
					writeError(w, http.StatusNotFound, "brief not found")
					return
				}
				zap.L().Error("delete brief failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "delete brief failed")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		})

		r.Post("/briefs/{id}/draft", func(w http.ResponseWriter, req *http.Request) {
			var dr draft.Request
			if err := json.NewDecoder(req.Body).Decode(&dr); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			dr.BriefID = chi.URLParam(req, "id")

			result, err := env.Drafts.Generate(req.Context(), dr, ownerID(req))
			if err != nil {
				switch {
				case strings.Contains(err.Error(), "unknown draft type"):
					writeError(w, http.StatusBadRequest, err.Error())
				case strings.Contains(err.Error(), "not found"):
					writeError(w, http.StatusNotFound, "brief not found")
				default:
					zap.L().Error("draft generation failed", zap.Error(err))
					writeError(w, http.StatusInternalServerError, "draft generation failed")
				}
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/outreach/sessions", func(w http.ResponseWriter, req *http.Request) {
			var sess model.OutreachSession
			if err := json.NewDecoder(req.Body).Decode(&sess); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if owner := ownerID(req); owner != "" && sess.UserID == "" {
				sess.UserID = owner
			}
			if sess.UserID == "" || sess.BriefID == "" {
				writeError(w, http.StatusBadRequest, "user_id and brief_id are required")
				return
			}

			saved, err := env.Store.SaveOutreachSession(req.Context(), sess)
			if err != nil {
				zap.L().Error("save outreach session failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save outreach session failed")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "session": saved})
		})

		r.Get("/outreach/sessions", func(w http.ResponseWriter, req *http.Request) {
			userID := req.URL.Query().Get("user_id")
			if userID == "" {
				userID = ownerID(req)
			}
			if userID == "" {
				writeError(w, http.StatusBadRequest, "user_id is required")
				return
			}

			sessions, err := env.Store.ListOutreachSessions(req.Context(), userID)
			if err != nil {
				zap.L().Error("list outreach sessions failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list outreach sessions failed")
				return
			}
			if sessions == nil {
				sessions = []model.OutreachSession{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
		})
	})

	return r
}

func ownerID(req *http.Request) string {
	return req.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
