// Visual Logger
// Copyright (c) 2026 The Visual Logger Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Visual Logger.
//
// Visual Logger is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Visual Logger is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Visual Logger.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the JSON-RPC 2.0 API over websocket and HTTP POST and
// pushes notifications to connected websocket clients.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/api/methods"
	"github.com/visual-logger/core/pkg/api/middleware"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/models/requests"
	"github.com/visual-logger/core/pkg/api/validation"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
	"github.com/visual-logger/core/pkg/library"
)

const maxRequestSize = 1 << 20

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorInvalidParams = models.ErrorObject{
		Code:    -32602,
		Message: "Invalid params",
	}
	JSONRPCErrorServerError = models.ErrorObject{
		Code:    -32000,
		Message: "Server error",
	}
	JSONRPCErrorNotFound = models.ErrorObject{
		Code:    -32001,
		Message: "Not found",
	}
	JSONRPCErrorRateLimited = models.ErrorObject{
		Code:    -32002,
		Message: "Rate limit exceeded",
	}
)

type MethodFunc func(requests.RequestEnv) (any, error)

// MethodMap is the registry of JSON-RPC methods. Names are case
// insensitive.
type MethodMap struct {
	methods map[string]MethodFunc
	mu      syncutil.RWMutex
}

// NewMethodMap returns a map with every built-in method registered.
func NewMethodMap() *MethodMap {
	m := &MethodMap{methods: make(map[string]MethodFunc)}
	defaults := map[string]MethodFunc{
		// games
		models.MethodGames:       methods.HandleGames,
		models.MethodGamesNew:    methods.HandleAddGame,
		models.MethodGamesDelete: methods.HandleDeleteGame,
		models.MethodGamesStats:  methods.HandleGameStats,
		models.MethodGamesCover:  methods.HandleGameCover,
		// snapshots
		models.MethodSnapshots:        methods.HandleSnapshots,
		models.MethodSnapshotsUpdate:  methods.HandleUpdateSnapshot,
		models.MethodSnapshotsDelete:  methods.HandleDeleteSnapshots,
		models.MethodSnapshotsRestore: methods.HandleRestoreSnapshot,
		// screenshots
		models.MethodScreenshots:       methods.HandleScreenshots,
		models.MethodScreenshotsNew:    methods.HandleNewScreenshot,
		models.MethodScreenshotsUpdate: methods.HandleUpdateScreenshot,
		models.MethodScreenshotsDelete: methods.HandleDeleteScreenshots,
		models.MethodScreenshotsExport: methods.HandleExportScreenshots,
		// utils
		models.MethodVersion: methods.HandleVersion,
	}
	for name, fn := range defaults {
		if err := m.AddMethod(name, fn); err != nil {
			log.Error().Err(err).Str("method", name).Msg("failed to register method")
		}
	}
	return m
}

func (m *MethodMap) AddMethod(name string, fn MethodFunc) error {
	name = strings.ToLower(name)
	if name == "" || fn == nil {
		return errors.New("method name and handler are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.methods[name]; ok {
		return fmt.Errorf("method already registered: %s", name)
	}
	m.methods[name] = fn
	return nil
}

func (m *MethodMap) GetMethod(name string) (MethodFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[strings.ToLower(name)]
	return fn, ok
}

// errorObject maps a handler error to the JSON-RPC error sent to clients.
func errorObject(err error) models.ErrorObject {
	var valErr *validation.Error
	switch {
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.As(err, &valErr):
		return models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: err.Error()}
	case errors.Is(err, database.ErrNotFound), errors.Is(err, library.ErrGameNotFound):
		return models.ErrorObject{Code: JSONRPCErrorNotFound.Code, Message: err.Error()}
	default:
		return models.ErrorObject{Code: JSONRPCErrorServerError.Code, Message: err.Error()}
	}
}

func marshalError(id uuid.UUID, obj models.ErrorObject) []byte {
	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &obj,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling error response")
		return nil
	}
	return data
}

type Server struct {
	cfg     *config.Instance
	lib     *library.Library
	fs      afero.Fs
	methods *MethodMap
	limiter *middleware.IPRateLimiter
	filter  *middleware.IPFilter
	ws      *melody.Melody
}

func NewServer(cfg *config.Instance, lib *library.Library, fs afero.Fs) *Server {
	s := &Server{
		cfg:     cfg,
		lib:     lib,
		fs:      fs,
		methods: NewMethodMap(),
		limiter: middleware.NewIPRateLimiter(nil),
		filter:  middleware.NewIPFilter(cfg.AllowedIPs()),
		ws:      melody.New(),
	}
	s.ws.Config.MaxMessageSize = maxRequestSize
	s.ws.Upgrader.CheckOrigin = s.checkOrigin
	return s
}

func (s *Server) Methods() *MethodMap {
	return s.methods
}

// processRequest handles one raw JSON-RPC message. It returns nil when no
// reply should be sent.
func (s *Server) processRequest(ctx context.Context, msg []byte, remoteAddr string) []byte {
	if !json.Valid(msg) {
		log.Warn().Msg("data not valid json")
		return marshalError(uuid.Nil, JSONRPCErrorParseError)
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		return marshalError(uuid.Nil, JSONRPCErrorInvalidRequest)
	}
	id := uuid.Nil
	if req.ID != nil {
		id = *req.ID
	}
	if req.JSONRPC != "2.0" {
		log.Warn().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return marshalError(id, JSONRPCErrorInvalidRequest)
	}
	if req.Method == "" {
		if req.ID != nil {
			log.Debug().Str("id", id.String()).Msg("ignoring response from client")
			return nil
		}
		return marshalError(uuid.Nil, JSONRPCErrorInvalidRequest)
	}
	if req.ID == nil {
		log.Debug().Str("method", req.Method).Msg("received notification, ignoring")
		return nil
	}

	fn, ok := s.methods.GetMethod(req.Method)
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return marshalError(id, JSONRPCErrorMethodNotFound)
	}

	env := requests.RequestEnv{
		Context: ctx,
		Config:  s.cfg,
		Library: s.lib,
		Params:  req.Params,
		ID:      id,
		IsLocal: middleware.IsLoopbackAddr(remoteAddr),
	}
	result, err := fn(env)
	if err != nil {
		log.Warn().Err(err).Str("method", req.Method).Msg("error handling request")
		return marshalError(id, errorObject(err))
	}

	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling response")
		return marshalError(id, JSONRPCErrorServerError)
	}
	return data
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	// heartbeat
	if string(msg) == "ping" {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	resp := s.processRequest(session.Request.Context(), msg, session.Request.RemoteAddr)
	if resp == nil {
		return
	}
	if err := session.Write(resp); err != nil {
		log.Error().Err(err).Msg("error sending response")
	}
}

// handlePostRequest serves single JSON-RPC requests over plain HTTP. Errors
// are reported in the JSON-RPC body with status 200.
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	resp := s.processRequest(r.Context(), body, r.RemoteAddr)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

// handleImage serves the screenshot file of a snapshot or screenshot.
func (s *Server) handleImage(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var path string
		var err error
		switch kind {
		case "snapshots":
			var snap database.Snapshot
			snap, err = s.lib.Snapshot(id)
			path = snap.ImagePath
		default:
			var shot database.Screenshot
			shot, err = s.lib.Screenshot(id)
			path = shot.ImagePath
		}
		if errors.Is(err, database.ErrNotFound) || (err == nil && path == "") {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		f, err := s.fs.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing image")
			}
		}()
		info, err := f.Stat()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origin = strings.ToLower(origin)
	for _, allowed := range s.allowedOrigins() {
		allowed = strings.ToLower(allowed)
		if prefix, ok := strings.CutSuffix(allowed, "*"); ok {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

func (s *Server) allowedOrigins() []string {
	origins := []string{
		"http://localhost",
		"http://localhost:*",
		"http://127.0.0.1",
		"http://127.0.0.1:*",
	}
	return append(origins, s.cfg.AllowedOrigins()...)
}

// Handler builds the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.HTTPIPFilterMiddleware(s.filter))
	r.Use(middleware.HTTPRateLimitMiddleware(s.limiter))
	r.Use(chimiddleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	reject := marshalError(uuid.Nil, JSONRPCErrorRateLimited)
	s.ws.HandleMessage(middleware.WebSocketRateLimitHandler(s.limiter, reject, s.handleWSMessage))

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		if err := s.ws.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.APIRequestTimeout))
		r.Post("/api", s.handlePostRequest)
		r.Get("/api/snapshots/{id}/image", s.handleImage("snapshots"))
		r.Get("/api/screenshots/{id}/image", s.handleImage("screenshots"))
	})

	return r
}

// broadcastNotifications sends every notification to all websocket
// clients until ctx is done or the channel closes.
func (s *Server) broadcastNotifications(ctx context.Context, notifications <-chan models.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-notifications:
			if !ok {
				return
			}
			data, err := json.Marshal(models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			})
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}
			if err := s.ws.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

// Serve runs the API on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener, notifications <-chan models.Notification) error {
	s.limiter.StartCleanup(ctx)
	go s.broadcastNotifications(ctx, notifications)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ws.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing websocket sessions")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	return nil
}
