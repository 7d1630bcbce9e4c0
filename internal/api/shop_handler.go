package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/studyhall/internal/api/shared"
	"github.com/phrazzld/studyhall/internal/platform/logger"
)

// ShopHandler serves the shop endpoints.
type ShopHandler struct {
	shop   ShopService
	logger *slog.Logger
}

// NewShopHandler creates a ShopHandler.
func NewShopHandler(shop ShopService, logger *slog.Logger) *ShopHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ShopHandler")
	}
	return &ShopHandler{
		shop:   shop,
		logger: logger.With(slog.String("component", "shop_handler")),
	}
}

// ListItems handles GET /api/shop/items.
func (h *ShopHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.shop.Catalog(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list shop items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// Inventory handles GET /api/shop/inventory.
func (h *ShopHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	entries, err := h.shop.Inventory(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load inventory")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// Purchase handles POST /api/shop/items/{id}/purchase.
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	result, err := h.shop.Purchase(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to purchase item")
		return
	}

	status := http.StatusOK
	if result.Charged {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, result)
}

// Equip handles POST /api/shop/items/{id}/equip.
func (h *ShopHandler) Equip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	profile, err := h.shop.Equip(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to equip item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// Unequip handles POST /api/shop/items/{id}/unequip.
func (h *ShopHandler) Unequip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	profile, err := h.shop.Unequip(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to unequip item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
