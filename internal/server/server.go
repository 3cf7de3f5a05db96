// Package server exposes an editing session over a local HTTP JSON API.
//
// All requests share one [editor.Editor]. Requests are serialised with a
// mutex, so a mutation and the state it returns are always consistent.
// Rows are addressed by their stable id; the response of every request
// carries the current groups so clients never compute positions themselves.
//
//	POST   /api/parse                    body: raw JSON text
//	GET    /api/state
//	GET    /api/catalog
//	POST   /api/ops                      {"op": "set 0:1 25"}
//	PATCH  /api/rows/{id}                {"value": "25"} or {"attrId": 7}
//	POST   /api/rows/{id}/up
//	POST   /api/rows/{id}/down
//	DELETE /api/rows/{id}
//	POST   /api/groups/{equip}/rows
//	POST   /api/groups/{equip}/toggle
//	POST   /api/groups/expand
//	POST   /api/groups/collapse
//	GET    /api/export                   attachment exported_attributes.json
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/attredit/pkg/attr"
	"github.com/matzehuels/attredit/pkg/catalog"
	"github.com/matzehuels/attredit/pkg/editor"
	pkgio "github.com/matzehuels/attredit/pkg/io"
)

// maxBodySize bounds request bodies.
const maxBodySize = 32 << 20

// Server serves one editing session.
type Server struct {
	mu     sync.Mutex
	editor *editor.Editor
	logger *log.Logger
}

// New creates a server with an empty session. A nil logger uses log.Default.
func New(cat *catalog.Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{editor: editor.New(cat, nil), logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observe)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Get("/state", s.handleState)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/ops", s.handleOp)

		r.Route("/rows/{id}", func(r chi.Router) {
			r.Patch("/", s.handlePatchRow)
			r.Delete("/", s.handleRowOp(editor.OpDelete))
			r.Post("/up", s.handleRowOp(editor.OpMoveUp))
			r.Post("/down", s.handleRowOp(editor.OpMoveDown))
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/expand", s.handleExpandAll)
			r.Post("/collapse", s.handleCollapseAll)
			r.Post("/{equip}/rows", s.handleAdd)
			r.Post("/{equip}/toggle", s.handleToggle)
		})

		r.Get("/export", s.handleExport)
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("Listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// LoadFile parses a file into the session before serving.
func (s *Server) LoadFile(ctx context.Context, path string) error {
	records, err := pkgio.ImportFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.LoadRecords(ctx, records)
	return nil
}

// session runs fn with the editor locked and returns the resulting state,
// including the notices fn produced.
func (s *Server) session(fn func(*editor.Editor) error) (state, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &editor.Recorder{}
	s.editor.SetNotifier(rec)
	defer s.editor.SetNotifier(nil)

	err := fn(s.editor)
	return s.snapshot(rec.Notices), err
}

// snapshot must be called with s.mu held.
func (s *Server) snapshot(notices []editor.Notice) state {
	st := state{
		Loaded:  s.editor.Loaded(),
		Groups:  []groupState{},
		Notices: append([]editor.Notice{}, notices...),
	}
	if m := s.editor.Model(); m != nil {
		st.Records = m.RecordCount()
		st.Rows = m.Len()
	}
	for _, g := range s.editor.Groups() {
		st.Groups = append(st.Groups, groupState{Group: g, Expanded: s.editor.IsExpanded(g.EquipIndex)})
	}
	return st
}

type state struct {
	Loaded  bool            `json:"loaded"`
	Records int             `json:"records"`
	Rows    int             `json:"rows"`
	Groups  []groupState    `json:"groups"`
	Notices []editor.Notice `json:"notices"`
	Error   *errorBody      `json:"error,omitempty"`
}

type groupState struct {
	attr.Group
	Expanded bool `json:"expanded"`
}
