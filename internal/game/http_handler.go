package game

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gamestore/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// List handles GET /api/games
// @Summary List storefront games
// @Description One page of the catalog, optionally filtered by genre and name search
// @Tags games
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param genre query string false "Exact genre"
// @Param search query string false "Case-insensitive name substring"
// @Success 200 {object} Page
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/games [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	q := Query{
		Page:   page,
		Genre:  query.Get("genre"),
		Search: strings.TrimSpace(query.Get("search")),
	}
	if details := httpx.ValidateStruct(q); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	result, err := h.svc.Query(r.Context(), q)
	if err != nil {
		httpx.LoggerFrom(r).Error("catalog query failed", "error", err, "genre", q.Genre, "search", q.Search, "page", q.Page)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load games", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/games/{id}
// @Summary Get a game
// @Tags games
// @Produce json
// @Param id path string true "Game id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/games/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Game id is required", nil)
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Game not found", nil)
			return
		}
		httpx.LoggerFrom(r).Error("catalog lookup failed", "error", err, "id", id)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load game", nil)
		return
	}

	httpx.JSONSuccess(w, r, g, nil)
}
