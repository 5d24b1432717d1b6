package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/boglefolio/internal/adapter/http/dto"
	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
)

// AssetService defines the behavior needed by AssetHandler.
type AssetService interface {
	CreateAsset(ctx context.Context, input usecase.CreateAssetInput) (*domain.Asset, error)
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context, input usecase.ListAssetsInput) ([]*domain.Asset, error)
	UpdateAsset(ctx context.Context, input usecase.UpdateAssetInput) (*domain.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	GetPrice(ctx context.Context, id string) (*usecase.Quote, error)
	GetHistory(ctx context.Context, input usecase.HistoryInput) ([]usecase.Bar, error)
}

// AssetHandler handles asset-related HTTP requests.
type AssetHandler struct {
	assetUC AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetUC AssetService) *AssetHandler {
	return &AssetHandler{assetUC: assetUC}
}

// Create creates a new asset.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	asset, err := h.assetUC.CreateAsset(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create asset", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AssetFromDomain(asset))
}

// Get retrieves an asset by ID.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	asset, err := h.assetUC.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get asset", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetFromDomain(asset))
}

// List lists assets.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	assets, err := h.assetUC.ListAssets(r.Context(), usecase.ListAssetsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAssetsResponse{
		Assets: dto.AssetsFromDomain(assets),
		Total:  int64(len(assets)),
	})
}

// Update applies a partial update to an asset.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	var req dto.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	asset, err := h.assetUC.UpdateAsset(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update asset", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetFromDomain(asset))
}

// Delete deletes an asset by ID.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	if err := h.assetUC.DeleteAsset(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete asset", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPrice returns the latest quote for an asset.
func (h *AssetHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	quote, err := h.assetUC.GetPrice(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get price", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromUseCase(quote))
}

// GetHistory returns price history for an asset. Supported query parameters:
// start, end (RFC 3339 or YYYY-MM-DD) and interval (1d, 1wk, 1mo).
func (h *AssetHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	input := usecase.HistoryInput{
		AssetID:  id,
		Interval: domain.Interval(r.URL.Query().Get("interval")),
	}

	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := parseTimeQuery(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start", err.Error())
			return
		}
		input.Start = start
	}

	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := parseTimeQuery(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end", err.Error())
			return
		}
		input.End = end
	}

	bars, err := h.assetUC.GetHistory(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	asset, err := h.assetUC.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get asset", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Symbol: asset.Symbol,
		Bars:   dto.BarsFromUseCase(bars),
	})
}

func parseTimeQuery(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", raw)
}
