package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/glr"
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/internal/store"
	"github.com/dekarrin/scanforest/lr"
	"github.com/dekarrin/scanforest/recognize"
	"github.com/dekarrin/scanforest/surface"
	"github.com/dekarrin/scanforest/table"
)

type parseRequest struct {
	Grammar string `json:"grammar"`
	Input   string `json:"input"`
	Start   string `json:"start"`
	Tables  string `json:"tables"`
	GLR     bool   `json:"glr"`
}

type treeResponse struct {
	RequestID string `json:"request_id"`
	Trees     int    `json:"tree_count"`
	Tree      string `json:"tree"`
}

type tokenRequest struct {
	ClientID string `json:"client_id"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
		http.Error(w, "client_id is required", http.StatusBadRequest)
		return
	}
	tok, err := issueToken(s.jwtSecret, req.ClientID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok})
}

// handleParse builds (or reuses, via a checksum of the grammar text) a
// parser from the posted grammar text and parses the posted input,
// generalizing the request/response shape of dekarrin/tunaq's
// server/api/api.go HTTP* handlers (decode JSON, call into the backend,
// encode result or serr-style JSON error).
func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, requestID, http.StatusBadRequest, err)
		return
	}

	g, reg, err := surface.Load(req.Grammar, req.Start)
	if err != nil {
		writeJSONError(w, requestID, http.StatusBadRequest, err)
		return
	}

	mode := table.ModeLALR
	switch req.Tables {
	case "slr":
		mode = table.ModeSLR
	case "clr1":
		mode = table.ModeCLR1
	}

	t, err := s.buildOrCachedTable(r.Context(), req.Grammar, g, table.Options{
		Mode: mode,
		GLR:  req.GLR,
	})
	if err != nil {
		writeJSONError(w, requestID, http.StatusUnprocessableEntity, err)
		return
	}
	if eoi, ok := t.Grammar.SymbolByName(grammar.EndOfInput); ok {
		reg.Register(eoi.ID, recognize.EndOfInput, recognize.KindOther, false)
	}

	layout := recognize.DefaultLayout("\t\n ")
	input := []rune(req.Input)

	if req.GLR {
		drv := glr.New(t, reg, layout)
		f, roots, err := drv.Parse(r.Context(), input)
		if err != nil {
			writeJSONError(w, requestID, http.StatusUnprocessableEntity, err)
			return
		}
		count := 0
		var first forest.Tree
		for _, root := range roots {
			forest.EnumerateTrees(f, root, func(tr forest.Tree) bool {
				if count == 0 {
					first = tr
				}
				count++
				return true
			})
		}
		writeJSON(w, http.StatusOK, treeResponse{RequestID: requestID, Trees: count, Tree: dumpTree(first)})
		return
	}

	drv := lr.New(t, reg, layout)
	f, root, err := drv.Parse(r.Context(), input)
	if err != nil {
		writeJSONError(w, requestID, http.StatusUnprocessableEntity, err)
		return
	}
	tree := forest.FirstTree(f, root)
	writeJSON(w, http.StatusOK, treeResponse{RequestID: requestID, Trees: 1, Tree: dumpTree(tree)})
}

func (s *server) buildOrCachedTable(ctx context.Context, grammarText string, g *grammar.Grammar, opts table.Options) (*table.Table, error) {
	checksum := store.Checksum(grammarText)

	if blob, found, err := s.cache.Get(ctx, checksum); err == nil && found {
		ag := g.Augmented()
		return blob.Attach(&ag), nil
	}

	t, err := table.Build(g, opts)
	if err != nil {
		return nil, err
	}

	blob := store.ToBlob(checksum, opts.Mode, t)
	_ = s.cache.Put(ctx, blob) // cache population is best-effort; a failed write doesn't fail the parse

	return t, nil
}

func dumpTree(t forest.Tree) string {
	if t.Terminal {
		return fmt.Sprintf("%q", t.Value)
	}
	s := fmt.Sprintf("node#%d(", t.Symbol)
	for i, c := range t.Children {
		if i > 0 {
			s += " "
		}
		s += dumpTree(c)
	}
	return s + ")"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, requestID string, status int, err error) {
	body := map[string]string{"request_id": requestID, "error": err.Error()}
	if fm, ok := err.(interface{ FullMessage() string }); ok {
		body["error"] = fm.FullMessage()
	}
	if _, ok := err.(*icerrors.GrammarError); ok {
		body["kind"] = "grammar_error"
	}
	writeJSON(w, status, body)
}
