package http

import (
	"encoding/json"
	"net/http"

	"github.com/edu-bridge/edubridge-lms/internal/ai"
	"github.com/edu-bridge/edubridge-lms/internal/assignment"
)

// POST /ai/translate  { "sentences": [...], "cloze": bool }
// Batch-translates English sentences to Korean so teachers can fill empty
// targets while authoring. With cloze set, blank markers are stripped from
// the inputs first so the model sees complete sentences.
func TranslateHandler(svc ai.TextService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Sentences []string `json:"sentences"`
			Cloze     bool     `json:"cloze"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		inputs := req.Sentences
		if req.Cloze {
			inputs = make([]string, len(req.Sentences))
			for i, s := range req.Sentences {
				inputs[i] = assignment.StripBlankMarkers(s)
			}
		}
		results, err := svc.BatchTranslate(r.Context(), inputs)
		if err != nil {
			http.Error(w, "translate: "+err.Error(), http.StatusBadGateway)
			return
		}
		if results == nil {
			results = []string{}
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"results": results})
	}
}
