package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/attredit/pkg/catalog"
	"github.com/matzehuels/attredit/pkg/editor"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
	pkgio "github.com/matzehuels/attredit/pkg/io"
)

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	st, err := s.session(func(e *editor.Editor) error {
		return e.Load(r.Context(), string(body))
	})
	respond(w, st, err)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.session(func(*editor.Editor) error { return nil })
	respond(w, st, err)
}

type catalogResponse struct {
	Attributes []catalog.AttributeOption `json:"attributes"`
	Equipment  []catalog.EquipmentOption `json:"equipment"`
	Default    int                       `json:"defaultAttribute"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.editor.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Attributes: cat.Attributes(),
		Equipment:  cat.Equipment(),
		Default:    cat.DefaultAttribute(),
	})
}

type opRequest struct {
	Op string `json:"op"`
}

func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	var req opRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	op, err := editor.ParseOp(req.Op)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := s.session(func(e *editor.Editor) error {
		_, err := e.Apply(r.Context(), op)
		return err
	})
	respond(w, st, err)
}

type patchRequest struct {
	Value  *string `json:"value"`
	AttrID *int    `json:"attrId"`
}

func (s *Server) handlePatchRow(w http.ResponseWriter, r *http.Request) {
	id, err := rowID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req patchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Value == nil && req.AttrID == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "nothing to update: want value or attrId"))
		return
	}

	st, err := s.session(func(e *editor.Editor) error {
		equip, idx, err := locate(e, id)
		if err != nil {
			return err
		}
		if req.AttrID != nil {
			op := editor.Op{Kind: editor.OpSetAttribute, EquipIndex: equip, AttrIndex: idx, Arg: strconv.Itoa(*req.AttrID)}
			if _, err := e.Apply(r.Context(), op); err != nil {
				return err
			}
		}
		if req.Value != nil {
			op := editor.Op{Kind: editor.OpSetValue, EquipIndex: equip, AttrIndex: idx, Arg: *req.Value}
			if _, err := e.Apply(r.Context(), op); err != nil {
				return err
			}
		}
		return nil
	})
	respond(w, st, err)
}

func (s *Server) handleRowOp(kind editor.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		st, err := s.session(func(e *editor.Editor) error {
			equip, idx, err := locate(e, id)
			if err != nil {
				return err
			}
			_, err = e.Apply(r.Context(), editor.Op{Kind: kind, EquipIndex: equip, AttrIndex: idx})
			return err
		})
		respond(w, st, err)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	equip, err := equipIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := s.session(func(e *editor.Editor) error {
		_, err := e.Apply(r.Context(), editor.Op{Kind: editor.OpAdd, EquipIndex: equip})
		return err
	})
	respond(w, st, err)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	equip, err := equipIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := s.session(func(e *editor.Editor) error {
		if e.Model() == nil || !e.Model().Editable(equip) {
			return apperrors.New(apperrors.ErrCodeNotFound, "equipment %d has no attribute list", equip)
		}
		e.Toggle(equip)
		return nil
	})
	respond(w, st, err)
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	st, err := s.session(func(e *editor.Editor) error {
		e.ExpandAll()
		return nil
	})
	respond(w, st, err)
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	st, err := s.session(func(e *editor.Editor) error {
		e.CollapseAll()
		return nil
	})
	respond(w, st, err)
}

// handleExport streams the exported JSON as a file download. The optional
// "filename" query parameter renames the attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := pkgio.DefaultExportFile
	if q := r.URL.Query().Get("filename"); q != "" {
		if err := apperrors.ValidateExportFilename(q); err != nil {
			writeError(w, err)
			return
		}
		name = q
	}

	var buf bytes.Buffer
	st, err := s.session(func(e *editor.Editor) error {
		return e.Export(r.Context(), editor.WriterSink{W: &buf, Label: "download"})
	})
	if err != nil {
		respond(w, st, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func locate(e *editor.Editor, id uuid.UUID) (int, int, error) {
	if m := e.Model(); m != nil {
		if equip, idx, ok := m.Position(id); ok {
			return equip, idx, nil
		}
	}
	return 0, 0, apperrors.New(apperrors.ErrCodeNotFound, "no row %s", id)
}

func rowID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid row id %q", raw)
	}
	return id, nil
}

func equipIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "equip")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid equipment index %q", raw)
	}
	return n, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
