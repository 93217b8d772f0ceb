package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharecircle/internal/adapter/repo/memory"
	"sharecircle/internal/domain"
	"sharecircle/internal/http/handlers"
	"sharecircle/internal/infra"
	"sharecircle/internal/usecase"
)

type mediaStub struct{}

func (mediaStub) Save(_ context.Context, filename string, _ []byte) (string, error) {
	return "/uploads/" + filename, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	logger := zerolog.Nop()

	cfg := &infra.Config{
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		AllowedOrigins:  []string{"*"},
		RateLimitPerMin: 10000,
	}

	app := &handlers.App{
		Accounts: usecase.NewAccountUsecase(store.Users(), logger),
		Catalog: usecase.NewCatalogUsecase(
			store.Items(), store.Questions(), store.Users(), mediaStub{}, nil, logger,
		),
		Exchange: usecase.NewExchangeUsecase(
			store.Items(), store.Requests(), store.Logistics(),
			nil, nil, domain.LogisticsPolicy{TerminalStates: true}, logger,
		),
		Stats:     store.Stats(),
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}

	server := httptest.NewServer(NewRouter(app, cfg))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func registerUser(t *testing.T, url, name string) (id, token string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, url+"/api/register", "", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.User.ID, body.Token
}

func createItem(t *testing.T, url, token, weight string) string {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Bookshelf"))
	require.NoError(t, form.WriteField("description", "Solid pine"))
	require.NoError(t, form.WriteField("category", "furniture"))
	require.NoError(t, form.WriteField("condition", "good"))
	require.NoError(t, form.WriteField("location", "Portland"))
	if weight != "" {
		require.NoError(t, form.WriteField("weight", weight))
	}
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, url+"/api/items", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var item struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &item)
	return item.ID
}

func TestRegisterAndLogin(t *testing.T) {
	server, _ := newTestServer(t)

	_, token := registerUser(t, server.URL, "ada")
	require.NotEmpty(t, token)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var errBody struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "unauthorized", errBody.Error.Code)
	assert.Equal(t, "invalid login credentials", errBody.Error.Message)
}

func TestItemsRequireAuth(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Public reads stay open.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/items", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	_, donorToken := registerUser(t, server.URL, "donor")
	_, requesterToken := registerUser(t, server.URL, "requester")

	itemID := createItem(t, server.URL, donorToken, "")

	// Item page is public.
	resp := doJSON(t, http.MethodGet, server.URL+"/api/items/"+itemID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Item struct {
			Status string `json:"status"`
		} `json:"item"`
	}
	decodeBody(t, resp, &detail)
	assert.Equal(t, "available", detail.Item.Status)

	// Requester asks for it.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/requests", requesterToken, map[string]string{
		"itemId":        itemID,
		"logisticsType": "pickup",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var request struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &request)

	// Only the donor may approve.
	resp = doJSON(t, http.MethodPatch, server.URL+"/api/requests/"+request.ID, requesterToken, map[string]string{
		"status": "approved",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPatch, server.URL+"/api/requests/"+request.ID, donorToken, map[string]string{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Arrange and complete logistics.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/logistics", requesterToken, map[string]string{
		"requestId": request.ID,
		"type":      "pickup",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var logistics struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &logistics)

	resp = doJSON(t, http.MethodPatch, server.URL+"/api/logistics/"+logistics.ID, donorToken, map[string]string{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, server.URL+"/api/items/"+itemID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	assert.Equal(t, "delivered", detail.Item.Status)
}

func TestLogisticsUpdateWhitelist(t *testing.T) {
	server, _ := newTestServer(t)

	_, donorToken := registerUser(t, server.URL, "donor")
	_, requesterToken := registerUser(t, server.URL, "requester")

	itemID := createItem(t, server.URL, donorToken, "")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/requests", requesterToken, map[string]string{
		"itemId":        itemID,
		"logisticsType": "delivery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var request struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &request)

	resp = doJSON(t, http.MethodPatch, server.URL+"/api/requests/"+request.ID, donorToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/logistics", requesterToken, map[string]string{
		"requestId": request.ID,
		"type":      "delivery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var logistics struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &logistics)

	// One unknown key rejects the whole update, valid keys included.
	resp = doJSON(t, http.MethodPatch, server.URL+"/api/logistics/"+logistics.ID, donorToken, map[string]any{
		"status":    "scheduled",
		"requestId": "other-request",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "field cannot be updated: requestId", errBody.Error.Message)

	// The rejected update left nothing behind.
	resp = doJSON(t, http.MethodPatch, server.URL+"/api/logistics/"+logistics.ID, donorToken, map[string]string{
		"trackingNumber": "TRACK-9",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"trackingNumber"`
	}
	decodeBody(t, resp, &updated)
	assert.Equal(t, "pending", updated.Status)
	assert.Equal(t, "TRACK-9", updated.TrackingNumber)
}

func TestRequestsListByType(t *testing.T) {
	server, _ := newTestServer(t)

	_, donorToken := registerUser(t, server.URL, "donor")
	_, requesterToken := registerUser(t, server.URL, "requester")

	itemID := createItem(t, server.URL, donorToken, "")
	resp := doJSON(t, http.MethodPost, server.URL+"/api/requests", requesterToken, map[string]string{
		"itemId":        itemID,
		"logisticsType": "pickup",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	listLen := func(token, query string) int {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/requests"+query, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Requests []struct {
				ItemID string `json:"itemId"`
			} `json:"requests"`
		}
		decodeBody(t, resp, &body)
		return len(body.Requests)
	}

	assert.Equal(t, 1, listLen(donorToken, "?type=received"), "donor sees the incoming request")
	assert.Equal(t, 0, listLen(donorToken, ""), "donor made no requests")
	assert.Equal(t, 1, listLen(requesterToken, ""), "made is the default view")
	assert.Equal(t, 1, listLen(requesterToken, "?type=made"))
	assert.Equal(t, 0, listLen(requesterToken, "?type=received"))
}

func TestAdminStats(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	_, token := registerUser(t, server.URL, "donor")
	createItem(t, server.URL, token, "4.5 kg")
	createItem(t, server.URL, token, "2kg")
	createItem(t, server.URL, token, "heavy")

	resp = doJSON(t, http.MethodGet, server.URL+"/api/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		ItemsShared     int     `json:"itemsShared"`
		WasteDivertedKg float64 `json:"wasteDivertedKg"`
		MembersHelped   int     `json:"membersHelped"`
	}
	decodeBody(t, resp, &stats)
	assert.Equal(t, 3, stats.ItemsShared)
	assert.InDelta(t, 6.5, stats.WasteDivertedKg, 0.001, "unparseable weights count as zero")
	assert.Equal(t, 0, stats.MembersHelped)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
