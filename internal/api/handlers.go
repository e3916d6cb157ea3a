package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/dishpin/dishpin/internal/database"
	"github.com/dishpin/dishpin/internal/resolution"
)

type App struct {
	Resolver  *resolution.Service
	MediaRepo *database.MediaRepository
	Validate  *validator.Validate
	Log       zerolog.Logger
}

func NewApp(resolver *resolution.Service, mediaRepo *database.MediaRepository, log zerolog.Logger) *App {
	return &App{
		Resolver:  resolver,
		MediaRepo: mediaRepo,
		Validate:  validator.New(),
		Log:       log,
	}
}

type resolveRequest struct {
	MediaID   string   `json:"media_id" validate:"required,uuid"`
	FrameURLs []string `json:"frame_urls" validate:"required,min=1,dive,url"`
	Country   string   `json:"country"`
	City      string   `json:"city"`
}

type ocrRequest struct {
	MediaID  string `json:"media_id" validate:"required,uuid"`
	ImageURL string `json:"image_url" validate:"required,url"`
}

type placeCandidate struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	PlaceID string  `json:"place_id"`
	Score   float64 `json:"score"`
}

type resolveResponse struct {
	Status       string           `json:"status"`
	RestaurantID string           `json:"restaurant_id,omitempty"`
	Score        *float64         `json:"score,omitempty"`
	Candidates   []placeCandidate `json:"candidates,omitempty"`
	OCRText      *string          `json:"ocr_text,omitempty"`
}

type ocrResponse struct {
	Status string   `json:"status"`
	Text   []string `json:"text,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) ResolveMediaHandler(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Malformed input is rejected before any external call is made.
	if err := app.Validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	outcome, err := app.Resolver.Resolve(r.Context(), resolution.ResolveRequest{
		MediaID:   req.MediaID,
		FrameURLs: req.FrameURLs,
		Country:   req.Country,
		City:      req.City,
	})
	if err != nil {
		app.writeError(w, err)
		return
	}

	resp := resolveResponse{Status: outcome.Status}
	switch outcome.Status {
	case resolution.OutcomeConfirmed:
		resp.RestaurantID = outcome.RestaurantID
		score := outcome.Score
		resp.Score = &score
	case resolution.OutcomeNeedsConfirmation:
		resp.Candidates = make([]placeCandidate, 0, len(outcome.Candidates))
		for _, c := range outcome.Candidates {
			resp.Candidates = append(resp.Candidates, placeCandidate{
				Name:    c.Name,
				Address: c.Address,
				Lat:     c.Lat,
				Lng:     c.Lng,
				PlaceID: c.PlaceID,
				Score:   c.Score,
			})
		}
		text := outcome.OCRText
		resp.OCRText = &text
	}

	writeJSON(w, http.StatusOK, resp)
}

func (app *App) ResolveOCRHandler(w http.ResponseWriter, r *http.Request) {
	var req ocrRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := app.Validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	outcome, err := app.Resolver.ResolveOCR(r.Context(), req.MediaID, req.ImageURL)
	if err != nil {
		app.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{Status: outcome.Status, Text: outcome.Text})
}

func (app *App) GetMediaHandler(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "id")
	if mediaID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "media id is required"})
		return
	}

	media, err := app.MediaRepo.GetByID(r.Context(), mediaID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "media item not found"})
			return
		}
		app.Log.Error().Err(err).Str("media_id", mediaID).Msg("failed to load media item")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"media_id":      media.ID,
		"status":        media.Status,
		"ocr_text":      media.OCRText,
		"restaurant_id": media.RestaurantID,
		"country":       media.Country,
		"city":          media.City,
	})
}

// writeError maps the resolution error taxonomy to HTTP statuses. Internal
// detail never leaks past the message of the sentinel kind.
func (app *App) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolution.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, resolution.ErrProvider):
		app.Log.Error().Err(err).Msg("provider error during resolution")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "provider error"})
	case errors.Is(err, resolution.ErrPersistence):
		app.Log.Error().Err(err).Msg("persistence error during resolution")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "persistence error"})
	default:
		app.Log.Error().Err(err).Msg("internal error during resolution")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
