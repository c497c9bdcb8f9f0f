package server

import (
	"encoding/json"
	"net/http"

	"github.com/nao1215/postfilter/internal/model"
)

const jsonContentType = "application/json; charset=utf-8"

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.Posts(r.Context())
	if err != nil {
		s.logger.Error("failed to load posts", "error", err)
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = model.FlatDataset{}
	}
	s.writeJSON(w, r, posts)
}

func (s *Server) handleGroups(kind model.GroupKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := s.store.Groups(r.Context(), kind)
		if err != nil {
			s.logger.Error("failed to load groups", "kind", kind, "error", err)
			http.Error(w, "failed to load "+kind.String()+" groups", http.StatusInternalServerError)
			return
		}
		if groups == nil {
			groups = model.GroupedDataset{}
		}
		s.writeJSON(w, r, groups)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", "path", r.URL.Path, "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	writeBody(w, r, http.StatusOK, jsonContentType, append(body, '\n'))
}
