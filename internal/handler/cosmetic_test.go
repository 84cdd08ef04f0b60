package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/catalog"
	"github.com/osse101/cosmetics/internal/cosmetic"
	"github.com/osse101/cosmetics/internal/database/memory"
	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/player"
	"github.com/osse101/cosmetics/internal/unlock"
)

type testEnv struct {
	router http.Handler
	store  *memory.Store
	wallet *unlock.MemoryWallet
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithBalances(t, nil)
}

func newTestEnvWithBalances(t *testing.T, balances map[string]int) *testEnv {
	t.Helper()

	cat := catalog.New(
		[]domain.Definition{
			{ID: "a1", DisplayName: "Classic", UnlockType: domain.UnlockDefault, IsDefault: true},
			{ID: "a2", DisplayName: "Knight", UnlockType: domain.UnlockSoftCurrency, UnlockValue: 100},
			{ID: "a3", DisplayName: "Cat", UnlockType: domain.UnlockFree},
			{ID: "a4", DisplayName: "Pumpkin", UnlockType: domain.UnlockEvent},
		},
		[]domain.Definition{
			{ID: "f1", DisplayName: "Wood", UnlockType: domain.UnlockDefault, IsDefault: true},
			{ID: "f2", DisplayName: "Gold", UnlockType: domain.UnlockHardCurrency, UnlockValue: 50},
		},
	)
	store := memory.NewStore()
	wallet := unlock.NewMemoryWallet(balances, 1)
	policy := unlock.NewWalletPolicy(wallet, nil)
	registry := player.NewRegistry(player.DefaultCacheConfig(), cat, store, policy, event.NewMemoryBus())

	r := chi.NewRouter()
	r.Get("/catalog/{category}", HandleGetCatalog(cat))
	r.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/profile", HandleGetProfile(registry))
		r.Put("/name", HandleUpdateUserName(registry))
		r.Get("/{category}", HandleGetItems(registry))
		r.Post("/{category}/select", HandleSelect(registry))
		r.Post("/{category}/unlock", HandleUnlock(registry))
		r.Post("/{category}/unlock-and-select", HandleUnlockAndSelect(registry))
	})
	r.Post("/admin/players/{playerID}/{category}/grant", HandleGrant(registry))
	r.Post("/admin/players/{playerID}/{category}/revoke", HandleRevoke(registry))

	return &testEnv{router: r, store: store, wallet: wallet}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHandleGetCatalog(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/catalog/frames", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode[CatalogResponse](t, w)
	assert.Equal(t, domain.CategoryFrame, resp.Category)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, domain.UnlockHardCurrency, resp.Items[1].UnlockType)
	assert.Contains(t, w.Body.String(), `"unlock_type":"hard_currency"`)

	w = env.do(t, http.MethodGet, "/catalog/hats", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgInvalidCategory)
}

func TestHandleGetProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/players/p1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ProfileResponse](t, w)
	assert.Equal(t, "p1", resp.PlayerID)
	assert.Equal(t, domain.DefaultUserName, resp.UserName)
	require.NotNil(t, resp.SelectedAvatar)
	assert.Equal(t, domain.ItemID("a1"), resp.SelectedAvatar.ID)
	require.NotNil(t, resp.SelectedFrame)
	assert.Equal(t, domain.ItemID("f1"), resp.SelectedFrame.ID)
	assert.ElementsMatch(t, []domain.ItemID{"a1", "a3"}, resp.OwnedAvatarIDs)
}

func TestHandleGetItems(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/players/p1/avatar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"selected":"a1"`)
	assert.Contains(t, body, `"id":"a1","display_name":"Classic","unlock_type":"default","unlock_value":0,"is_default":true,"state":"selected"`)
	assert.Contains(t, body, `"id":"a2","display_name":"Knight","unlock_type":"soft_currency","unlock_value":100,"is_default":false,"state":"locked"`)
	assert.Contains(t, body, `"id":"a3","display_name":"Cat","unlock_type":"free","unlock_value":0,"is_default":false,"state":"owned"`)
}

func TestHandleSelect(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedBody   string
	}{
		{"Success", ItemRequest{ID: "a3"}, http.StatusOK, `"state":"selected"`},
		{"Already Selected", ItemRequest{ID: "a1"}, http.StatusOK, MsgItemSelected},
		{"Not Owned", ItemRequest{ID: "a2"}, http.StatusConflict, `"kind":"not_owned"`},
		{"Unknown Item", ItemRequest{ID: "zzz"}, http.StatusNotFound, `"kind":"not_found_in_database"`},
		{"Missing ID", ItemRequest{}, http.StatusBadRequest, ErrMsgInvalidRequestSummary},
		{"Whitespace ID", ItemRequest{ID: "a 1"}, http.StatusBadRequest, "Invalid item id"},
		{"Malformed Body", "{", http.StatusBadRequest, ErrMsgInvalidRequest},
		{"Unknown Field", `{"id":"a3","extra":1}`, http.StatusBadRequest, ErrMsgInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, http.MethodPost, "/players/p1/avatar/select", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleUnlock(t *testing.T) {
	t.Run("Not Enough Coins", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/players/p1/avatar/unlock", ItemRequest{ID: "a2"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), unlock.ReasonNotEnoughCoins)
	})

	t.Run("Paid Unlock", func(t *testing.T) {
		env := newTestEnvWithBalances(t, map[string]int{unlock.CurrencySoft: 150})

		w := env.do(t, http.MethodPost, "/players/p1/avatar/unlock", ItemRequest{ID: "a2"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"state":"owned"`)

		balance, err := env.wallet.Balance(context.Background(), unlock.CurrencySoft)
		require.NoError(t, err)
		assert.Equal(t, 50, balance)
	})

	t.Run("Event Item", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/players/p1/avatar/unlock", ItemRequest{ID: "a4"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"not_unlockable"`)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		env := newTestEnvWithBalances(t, map[string]int{unlock.CurrencyHard: 50})
		// Initialize the player before saves start failing
		require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/players/p1/profile", nil).Code)
		env.store.FailSaves(errors.New("disk full"))

		w := env.do(t, http.MethodPost, "/players/p1/frame/unlock", ItemRequest{ID: "f2"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgStorageError)
		assert.NotContains(t, w.Body.String(), "disk full")
	})
}

func TestHandleUnlockAndSelect(t *testing.T) {
	env := newTestEnvWithBalances(t, map[string]int{unlock.CurrencyHard: 50})

	w := env.do(t, http.MethodPost, "/players/p1/frame/unlock-and-select", ItemRequest{ID: "f2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"state":"selected"`)

	profile := decode[ProfileResponse](t, env.do(t, http.MethodGet, "/players/p1/profile", nil))
	require.NotNil(t, profile.SelectedFrame)
	assert.Equal(t, domain.ItemID("f2"), profile.SelectedFrame.ID)
}

func TestHandleUpdateUserName(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/players/p1/name", UserNameRequest{Name: "  Ana "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"user_name":"Ana"`)

	w = env.do(t, http.MethodPut, "/players/p1/name", UserNameRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"invalid_id"`)

	w = env.do(t, http.MethodPut, "/players/p1/name", UserNameRequest{Name: "bad\nname"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Contains invalid characters")
}

func TestHandleGrantAndRevoke(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/admin/players/p1/avatar/grant", GrantRequest{ID: "a4", AutoSelect: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// Slot already held a1, so auto-select does not apply
	assert.Contains(t, w.Body.String(), `"state":"owned"`)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/players/p1/avatar/select", ItemRequest{ID: "a4"}).Code)

	w = env.do(t, http.MethodPost, "/admin/players/p1/avatar/revoke", ItemRequest{ID: "a4"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"state":"locked"`)

	profile := decode[ProfileResponse](t, env.do(t, http.MethodGet, "/players/p1/profile", nil))
	assert.Equal(t, domain.ItemID("a1"), profile.SelectedAvatar.ID)

	w = env.do(t, http.MethodPost, "/admin/players/p1/avatar/revoke", ItemRequest{ID: "a1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
		{"not initialized", domain.NewError(domain.KindNotInitialized, "not initialized"), http.StatusServiceUnavailable, ErrMsgUnavailableError},
		{"invalid id", domain.NewError(domain.KindInvalidID, ""), http.StatusBadRequest, ErrMsgInvalidIDError},
		{"not found", domain.NewError(domain.KindNotFoundInDatabase, "avatar 'x' not in catalog"), http.StatusNotFound, "avatar 'x' not in catalog"},
		{"not owned", domain.NewError(domain.KindNotOwned, ""), http.StatusConflict, ErrMsgNotOwnedError},
		{"not unlockable", domain.NewError(domain.KindNotUnlockable, "not enough coins"), http.StatusForbidden, "not enough coins"},
		{"provider failure", domain.WrapError(domain.KindUnlockProviderFailure, "unlock failed", unlock.ErrAdFailed), http.StatusPaymentRequired, ErrMsgUnlockFailedError},
		{"storage failure", domain.WrapError(domain.KindStorageFailure, "failed to save", errors.New("pq: secret")), http.StatusInternalServerError, ErrMsgStorageError},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), domain.ErrNotOwned), http.StatusConflict, ErrMsgNotOwnedError},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

type failingPlayers struct{ err error }

func (f failingPlayers) Get(context.Context, string) (cosmetic.Service, error) {
	return nil, f.err
}

func TestHandleSelect_RegistryFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/players/{playerID}/{category}/select", HandleSelect(failingPlayers{
		err: domain.NewError(domain.KindInvalidID, player.ErrMsgEmptyPlayerID),
	}))

	req := httptest.NewRequest(http.MethodPost, "/players/p1/avatar/select", strings.NewReader(`{"id":"a1"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), player.ErrMsgEmptyPlayerID)
}
