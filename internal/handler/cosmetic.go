package handler

import (
	"context"
	"net/http"

	"github.com/osse101/cosmetics/internal/cosmetic"
	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/logger"
)

// PlayerServices resolves the initialized service of a player.
// *player.Registry satisfies it.
type PlayerServices interface {
	Get(ctx context.Context, playerID string) (cosmetic.Service, error)
}

// CatalogReader lists catalog entries. *catalog.Catalog satisfies it.
type CatalogReader interface {
	Items(cat domain.Category) []domain.Definition
}

// ItemRequest is the body of select, unlock and unlock-and-select
type ItemRequest struct {
	ID string `json:"id" validate:"required,itemid,max=128"`
}

// GrantRequest is the body of the admin grant endpoint
type GrantRequest struct {
	ID         string `json:"id" validate:"required,itemid,max=128"`
	AutoSelect bool   `json:"auto_select"`
}

// UserNameRequest is the body of the user name endpoint
type UserNameRequest struct {
	Name string `json:"name" validate:"required,max=64,username"`
}

// CatalogResponse lists the definitions of one category
type CatalogResponse struct {
	Category domain.Category     `json:"category"`
	Items    []domain.Definition `json:"items"`
}

// ItemsResponse lists one category with the player's ownership states
type ItemsResponse struct {
	PlayerID string              `json:"player_id"`
	Category domain.Category     `json:"category"`
	Selected domain.ItemID       `json:"selected"`
	Items    []cosmetic.ItemView `json:"items"`
}

// ProfileResponse is the player's cosmetic profile
type ProfileResponse struct {
	PlayerID       string             `json:"player_id"`
	UserName       string             `json:"user_name"`
	SelectedAvatar *domain.Definition `json:"selected_avatar"`
	SelectedFrame  *domain.Definition `json:"selected_frame"`
	OwnedAvatarIDs []domain.ItemID    `json:"owned_avatar_ids"`
	OwnedFrameIDs  []domain.ItemID    `json:"owned_frame_ids"`
}

// ItemStateResponse reports an item's state after a mutation
type ItemStateResponse struct {
	Category domain.Category       `json:"category"`
	ID       domain.ItemID         `json:"id"`
	State    domain.OwnershipState `json:"state"`
}

// HandleGetCatalog lists every definition of a category
// @Summary List catalog
// @Tags catalog
// @Produce json
// @Param category path string true "avatar or frame"
// @Success 200 {object} CatalogResponse
// @Router /api/v1/catalog/{category} [get]
func HandleGetCatalog(catalog CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, ok := categoryParam(w, r)
		if !ok {
			return
		}
		items := catalog.Items(cat)
		if items == nil {
			items = []domain.Definition{}
		}
		respondJSON(w, http.StatusOK, CatalogResponse{Category: cat, Items: items})
	}
}

// HandleGetProfile returns the player's name, selections and owned ids
// @Summary Get cosmetic profile
// @Tags players
// @Produce json
// @Param playerID path string true "Player id"
// @Success 200 {object} ProfileResponse
// @Router /api/v1/players/{playerID}/profile [get]
func HandleGetProfile(players PlayerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := playerIDParam(w, r)
		if !ok {
			return
		}
		svc, err := players.Get(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, OpGetProfile, err)
			return
		}
		state, err := svc.Snapshot(r.Context())
		if err != nil {
			respondServiceError(w, r, OpGetProfile, err)
			return
		}

		respondJSON(w, http.StatusOK, ProfileResponse{
			PlayerID:       playerID,
			UserName:       state.UserName,
			SelectedAvatar: selectedDefinition(r.Context(), svc, domain.CategoryAvatar),
			SelectedFrame:  selectedDefinition(r.Context(), svc, domain.CategoryFrame),
			OwnedAvatarIDs: state.OwnedAvatarIDs,
			OwnedFrameIDs:  state.OwnedFrameIDs,
		})
	}
}

// selectedDefinition returns nil for an empty slot
func selectedDefinition(ctx context.Context, svc cosmetic.Service, cat domain.Category) *domain.Definition {
	def, err := svc.SelectedDefinition(ctx, cat)
	if err != nil {
		return nil
	}
	return &def
}

// HandleGetItems lists a category with the player's ownership state per item
// @Summary List items with ownership state
// @Tags players
// @Produce json
// @Param playerID path string true "Player id"
// @Param category path string true "avatar or frame"
// @Success 200 {object} ItemsResponse
// @Router /api/v1/players/{playerID}/{category} [get]
func HandleGetItems(players PlayerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := playerIDParam(w, r)
		if !ok {
			return
		}
		cat, ok := categoryParam(w, r)
		if !ok {
			return
		}
		svc, err := players.Get(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, OpGetItems, err)
			return
		}
		items, err := svc.Items(r.Context(), cat)
		if err != nil {
			respondServiceError(w, r, OpGetItems, err)
			return
		}
		selected, _ := svc.Selected(r.Context(), cat)

		respondJSON(w, http.StatusOK, ItemsResponse{
			PlayerID: playerID,
			Category: cat,
			Selected: selected,
			Items:    items,
		})
	}
}

// itemAction is a service operation on one item of a category
type itemAction func(ctx context.Context, svc cosmetic.Service, cat domain.Category, id domain.ItemID) error

// handleItemAction decodes {"id"}, resolves the player's service, runs action
// and answers with the item's resulting state.
func handleItemAction(players PlayerServices, opName, successMsg string, action itemAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := playerIDParam(w, r)
		if !ok {
			return
		}
		cat, ok := categoryParam(w, r)
		if !ok {
			return
		}
		var req ItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, opName); err != nil {
			return
		}
		respondItemAction(w, r, players, playerID, cat, domain.ItemID(req.ID), opName, successMsg, action)
	}
}

func respondItemAction(w http.ResponseWriter, r *http.Request, players PlayerServices, playerID string, cat domain.Category, id domain.ItemID, opName, successMsg string, action itemAction) {
	ctx := r.Context()
	svc, err := players.Get(ctx, playerID)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	if err := action(ctx, svc, cat, id); err != nil {
		respondServiceError(w, r, opName, err)
		return
	}

	state, err := svc.State(ctx, cat, id)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	logger.FromContext(ctx).Info(successMsg, "player_id", playerID, "category", cat, "item_id", id)
	respondJSON(w, http.StatusOK, DataResponse{
		Message: successMsg,
		Data:    ItemStateResponse{Category: cat, ID: id, State: state},
	})
}

// HandleSelect selects an owned item
// @Summary Select item
// @Tags players
// @Accept json
// @Produce json
// @Param request body ItemRequest true "Item id"
// @Success 200 {object} DataResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/players/{playerID}/{category}/select [post]
func HandleSelect(players PlayerServices) http.HandlerFunc {
	return handleItemAction(players, OpSelect, MsgItemSelected,
		func(ctx context.Context, svc cosmetic.Service, cat domain.Category, id domain.ItemID) error {
			return svc.Select(ctx, cat, id)
		})
}

// HandleUnlock unlocks an item through the unlock policy
// @Summary Unlock item
// @Tags players
// @Accept json
// @Produce json
// @Param request body ItemRequest true "Item id"
// @Success 200 {object} DataResponse
// @Failure 403 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Router /api/v1/players/{playerID}/{category}/unlock [post]
func HandleUnlock(players PlayerServices) http.HandlerFunc {
	return handleItemAction(players, OpUnlock, MsgItemUnlocked,
		func(ctx context.Context, svc cosmetic.Service, cat domain.Category, id domain.ItemID) error {
			return svc.Unlock(ctx, cat, id)
		})
}

// HandleUnlockAndSelect unlocks an item when needed and selects it
// @Summary Unlock and select item
// @Tags players
// @Accept json
// @Produce json
// @Param request body ItemRequest true "Item id"
// @Success 200 {object} DataResponse
// @Router /api/v1/players/{playerID}/{category}/unlock-and-select [post]
func HandleUnlockAndSelect(players PlayerServices) http.HandlerFunc {
	return handleItemAction(players, OpUnlockAndSelect, MsgItemUnlockSelected,
		func(ctx context.Context, svc cosmetic.Service, cat domain.Category, id domain.ItemID) error {
			return svc.UnlockAndSelect(ctx, cat, id)
		})
}

// HandleUpdateUserName renames the player
// @Summary Update user name
// @Tags players
// @Accept json
// @Produce json
// @Param request body UserNameRequest true "New name"
// @Success 200 {object} DataResponse
// @Router /api/v1/players/{playerID}/name [put]
func HandleUpdateUserName(players PlayerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := playerIDParam(w, r)
		if !ok {
			return
		}
		var req UserNameRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpUpdateUserName); err != nil {
			return
		}

		svc, err := players.Get(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, OpUpdateUserName, err)
			return
		}
		if err := svc.UpdateUserName(r.Context(), req.Name); err != nil {
			respondServiceError(w, r, OpUpdateUserName, err)
			return
		}
		state, err := svc.Snapshot(r.Context())
		if err != nil {
			respondServiceError(w, r, OpUpdateUserName, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{
			Message: MsgUserNameUpdated,
			Data:    map[string]string{"user_name": state.UserName},
		})
	}
}

// HandleGrant grants an item without the unlock policy (support tooling)
// @Summary Grant item
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantRequest true "Item id and auto-select flag"
// @Success 200 {object} DataResponse
// @Router /api/v1/admin/players/{playerID}/{category}/grant [post]
func HandleGrant(players PlayerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := playerIDParam(w, r)
		if !ok {
			return
		}
		cat, ok := categoryParam(w, r)
		if !ok {
			return
		}
		var req GrantRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpGrant); err != nil {
			return
		}
		respondItemAction(w, r, players, playerID, cat, domain.ItemID(req.ID), OpGrant, MsgItemGranted,
			func(ctx context.Context, svc cosmetic.Service, cat domain.Category, id domain.ItemID) error {
				return svc.GrantOwned(ctx, cat, id, req.AutoSelect)
			})
	}
}

// HandleRevoke removes an item from the player's inventory (support tooling)
// @Summary Revoke item
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ItemRequest true "Item id"
// @Success 200 {object} DataResponse
// @Router /api/v1/admin/players/{playerID}/{category}/revoke [post]
func HandleRevoke(players PlayerServices) http.HandlerFunc {
	return handleItemAction(players, OpRevoke, MsgItemRevoked,
		func(ctx context.Context, svc cosmetic.Service, cat domain.Category, id domain.ItemID) error {
			return svc.RevokeOwned(ctx, cat, id)
		})
}
