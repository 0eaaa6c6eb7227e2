package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/dashboard"
	"github.com/abgdnv/giftshop/internal/quote"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t         *testing.T
	srv       *httptest.Server
	provider  *fakeProvider
	store     *memStore
	publisher *recordingPublisher
	manager   *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		t:         t,
		provider:  &fakeProvider{userID: uuid.New()},
		store:     newMemStore(),
		publisher: &recordingPublisher{},
	}
	c := catalog.Default()
	ts.manager = session.NewManager(c, ts.provider, ts.store, ts.store, session.Options{
		RestoreTimeout:  time.Second,
		WishlistTimeout: time.Second,
		IdleTimeout:     time.Hour,
		ProfileRetry:    config.RetryConfig{},
	}, discardLog)
	h := NewHandler(ts.manager, c, quote.NewService(ts.publisher, discardLog), fakeConcierge{}, dashboard.Static{}, discardLog)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	ts.srv = httptest.NewServer(r)
	t.Cleanup(func() {
		ts.srv.Close()
		ts.manager.Close()
	})
	return ts
}

type response struct {
	status int
	header http.Header
	body   map[string]any
	raw    string
}

func (ts *testServer) do(method, path, sessionID, body string) response {
	ts.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(ts.t, err)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	res, err := ts.srv.Client().Do(req)
	require.NoError(ts.t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	out := response{status: res.StatusCode, header: res.Header, raw: string(raw)}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(ts.t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func (ts *testServer) newSession() string {
	ts.t.Helper()
	res := ts.do(http.MethodPost, "/api/v1/sessions", "", "")
	require.Equal(ts.t, http.StatusCreated, res.status)
	id := res.header.Get(SessionHeader)
	require.NotEmpty(ts.t, id)
	return id
}

func (ts *testServer) signIn(sid string) {
	ts.t.Helper()
	res := ts.do(http.MethodPost, "/api/v1/session/signin", sid, `{"email":"jane@acme.com","password":"secret1"}`)
	require.Equal(ts.t, http.StatusOK, res.status, res.raw)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/healthz", "", "").status)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	t.Run("anonymous", func(t *testing.T) {
		// when
		res := ts.do(http.MethodPost, "/api/v1/sessions", "", "")

		// then
		require.Equal(t, http.StatusCreated, res.status)
		assert.Equal(t, res.header.Get(SessionHeader), res.body["id"])
		assert.Nil(t, res.body["user"])
	})

	t.Run("restores bearer token", func(t *testing.T) {
		// given
		req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/api/v1/sessions", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer access")

		// when
		res, err := ts.srv.Client().Do(req)

		// then
		require.NoError(t, err)
		defer res.Body.Close()
		var body SessionResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		require.NotNil(t, body.User)
		assert.Equal(t, "jane@acme.com", body.User.Email)
		assert.Equal(t, session.RoleBuyer, body.User.Role)
	})
}

func TestSessionRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name      string
		sessionID string
	}{
		{name: "missing header"},
		{name: "malformed id", sessionID: "not-a-uuid"},
		{name: "unknown session", sessionID: uuid.NewString()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// when
			res := ts.do(http.MethodGet, "/api/v1/cart", tt.sessionID, "")

			// then
			assert.Equal(t, http.StatusUnauthorized, res.status)
			assert.Equal(t, "session_required", res.body["code"])
		})
	}
}

func TestDeleteSession(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()

	// when
	res := ts.do(http.MethodDelete, "/api/v1/sessions/"+sid, "", "")

	// then
	assert.Equal(t, http.StatusNoContent, res.status)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/v1/sessions/"+sid, "", "").status)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodDelete, "/api/v1/sessions/xyz", "", "").status)
}

func TestCategories(t *testing.T) {
	// given
	ts := newTestServer(t)

	// when
	res := ts.do(http.MethodGet, "/api/v1/categories", "", "")

	// then
	require.Equal(t, http.StatusOK, res.status)
	var categories []string
	require.NoError(t, json.Unmarshal([]byte(res.raw), &categories))
	assert.Equal(t, "All", categories[0])
	assert.NotContains(t, categories, "Custom")
}

func TestProducts(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantHeading string
		wantIDs     []string
	}{
		{
			name:        "category sorted by price",
			query:       "?category=Drinkware&sort=price_asc",
			wantStatus:  http.StatusOK,
			wantHeading: "Drinkware",
			wantIDs:     []string{"dw2", "dw1"},
		},
		{
			name:        "search heading",
			query:       "?q=bottle",
			wantStatus:  http.StatusOK,
			wantHeading: `Search Results for "bottle"`,
		},
		{name: "unknown category", query: "?category=Toys", wantStatus: http.StatusBadRequest},
		{name: "unknown sort", query: "?sort=cheapest", wantStatus: http.StatusBadRequest},
		{name: "malformed price", query: "?min=abc", wantStatus: http.StatusBadRequest},
		{name: "malformed stock flag", query: "?in_stock=maybe", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// when
			res := ts.do(http.MethodGet, "/api/v1/products"+tt.query, "", "")

			// then
			require.Equal(t, tt.wantStatus, res.status, res.raw)
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, res.body["error"])
				return
			}
			var body ProductsResponse
			require.NoError(t, json.Unmarshal([]byte(res.raw), &body))
			assert.Equal(t, tt.wantHeading, body.Heading)
			assert.Equal(t, len(body.Products), body.Count)
			if tt.wantIDs != nil {
				var ids []string
				for _, p := range body.Products {
					ids = append(ids, p.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			}
		})
	}
}

func TestProducts_UsesSessionCriteria(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()
	put := ts.do(http.MethodPut, "/api/v1/session/criteria", sid, `{"category":"Drinkware","sort":"Price: High to Low","inStockOnly":true}`)
	require.Equal(t, http.StatusOK, put.status, put.raw)

	// when
	res := ts.do(http.MethodGet, "/api/v1/products", sid, "")

	// then
	var body ProductsResponse
	require.NoError(t, json.Unmarshal([]byte(res.raw), &body))
	assert.Equal(t, "Drinkware", body.Heading)
	assert.Equal(t, catalog.SortPriceDesc, body.Criteria.Sort)
	assert.Equal(t, int64(1000), body.Criteria.MaxPrice)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "dw1", body.Products[0].ID)

	// when
	reset := ts.do(http.MethodPost, "/api/v1/session/criteria/reset", sid, "")

	// then
	require.Equal(t, http.StatusOK, reset.status)
	assert.Equal(t, "All", reset.body["category"])
	assert.Equal(t, "price_desc", reset.body["sort"])
}

func TestProduct(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(http.MethodGet, "/api/v1/products/wk1", "", "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "wk1", res.body["id"])
	assert.Equal(t, true, res.body["isCustomizable"])

	res = ts.do(http.MethodGet, "/api/v1/products/nope", "", "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Product with ID nope not found", res.body["error"])
}

func TestCart(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()

	// when
	res := ts.do(http.MethodPost, "/api/v1/cart/lines", sid, `{"productId":"dw1","quantity":0}`)

	// then
	require.Equal(t, http.StatusCreated, res.status, res.raw)
	line := res.body["line"].(map[string]any)
	assert.Equal(t, float64(1), line["quantity"], "quantity is clamped to 1")
	assert.Equal(t, "Matte Black", line["selectedColor"], "first declared color is the default")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "out of stock", body: `{"productId":"cg2","quantity":1}`, wantStatus: http.StatusConflict},
		{name: "undeclared color", body: `{"productId":"dw1","selectedColor":"Neon"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown product", body: `{"productId":"zz9"}`, wantStatus: http.StatusNotFound},
		{name: "missing product id", body: `{"quantity":2}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"productId":`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, ts.do(http.MethodPost, "/api/v1/cart/lines", sid, tt.body).status)
		})
	}

	// given
	ts.do(http.MethodPost, "/api/v1/cart/lines", sid, `{"productId":"dw1","quantity":2,"selectedColor":"Snow White"}`)
	ts.do(http.MethodPost, "/api/v1/cart/lines", sid, `{"productId":"wk1","quantity":1}`)

	// when
	summary := ts.do(http.MethodGet, "/api/v1/cart", sid, "")

	// then
	assert.Equal(t, float64(4), summary.body["totalItems"])
	assert.Equal(t, true, summary.body["complimentaryLogistics"])
	assert.Len(t, summary.body["lines"], 3)

	// when
	variant := ts.do(http.MethodDelete, "/api/v1/cart/lines/dw1?color=Snow%20White", sid, "")

	// then
	require.Equal(t, http.StatusOK, variant.status)
	assert.Len(t, variant.body["lines"], 2)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/v1/cart/lines/dw1?color=Snow%20White", sid, "").status)

	// when
	all := ts.do(http.MethodDelete, "/api/v1/cart/lines/dw1", sid, "")

	// then
	require.Equal(t, http.StatusOK, all.status)
	assert.Len(t, all.body["lines"], 1)
	assert.Equal(t, float64(1), all.body["totalItems"])
}

func TestWishlist_RequiresSignIn(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()

	// when
	res := ts.do(http.MethodPost, "/api/v1/wishlist/wk1/toggle", sid, "")

	// then
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "auth_required", res.body["code"])
	current := ts.do(http.MethodGet, "/api/v1/session", sid, "")
	auth := current.body["auth"].(map[string]any)
	assert.Equal(t, true, auth["modalOpen"])
	assert.Equal(t, "signin", auth["mode"])
}

func TestWishlist_Toggle(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()
	ts.signIn(sid)

	// when
	res := ts.do(http.MethodPost, "/api/v1/wishlist/wk1/toggle", sid, "")

	// then
	require.Equal(t, http.StatusOK, res.status, res.raw)
	assert.Equal(t, true, res.body["wishlisted"])
	list := ts.do(http.MethodGet, "/api/v1/wishlist", sid, "")
	assert.Equal(t, []any{"wk1"}, list.body["items"])
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/api/v1/wishlist/nope/toggle", sid, "").status)
}

func TestSignUp(t *testing.T) {
	t.Run("password mismatch makes no provider call", func(t *testing.T) {
		// given
		ts := newTestServer(t)
		sid := ts.newSession()

		// when
		res := ts.do(http.MethodPost, "/api/v1/session/signup", sid,
			`{"username":"jane","email":"jane@acme.com","password":"secret1","confirmPassword":"secret2"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Equal(t, "Passwords do not match!", res.body["error"])
		assert.Zero(t, ts.provider.signUpCalls())
	})

	t.Run("success", func(t *testing.T) {
		// given
		ts := newTestServer(t)
		sid := ts.newSession()

		// when
		res := ts.do(http.MethodPost, "/api/v1/session/signup", sid,
			`{"username":"jane","email":"jane@acme.com","password":"secret1","confirmPassword":"secret1"}`)

		// then
		require.Equal(t, http.StatusOK, res.status, res.raw)
		user := res.body["user"].(map[string]any)
		assert.Equal(t, "jane", user["name"])
		assert.Equal(t, session.DefaultCompany, user["company"])
		auth := res.body["auth"].(map[string]any)
		assert.Equal(t, "succeeded", auth["state"])
		assert.Equal(t, false, auth["modalOpen"])
	})

	t.Run("invalid email", func(t *testing.T) {
		// given
		ts := newTestServer(t)
		sid := ts.newSession()

		// when
		res := ts.do(http.MethodPost, "/api/v1/session/signup", sid,
			`{"username":"jane","email":"jane","password":"secret1","confirmPassword":"secret1"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Contains(t, res.body["validation_errors"], "Email")
	})
}

func TestSignIn_WrongPassword(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()

	// when
	res := ts.do(http.MethodPost, "/api/v1/session/signin", sid, `{"email":"jane@acme.com","password":"wrong-password"}`)

	// then
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "invalid_credentials", res.body["code"])
	assert.Equal(t, "Invalid email or password.", res.body["error"])
	current := ts.do(http.MethodGet, "/api/v1/session", sid, "")
	assert.Nil(t, current.body["user"])
	auth := current.body["auth"].(map[string]any)
	assert.Equal(t, "failed", auth["state"])
	assert.Equal(t, "jane@acme.com", auth["email"])
}

func TestSignOutAndRefresh(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/v1/session/refresh", sid, "").status)
	ts.signIn(sid)

	// when
	refreshed := ts.do(http.MethodPost, "/api/v1/session/refresh", sid, "")
	out := ts.do(http.MethodPost, "/api/v1/session/signout", sid, "")

	// then
	assert.Equal(t, http.StatusNoContent, refreshed.status)
	require.Equal(t, http.StatusOK, out.status)
	assert.Nil(t, out.body["user"])
}

func TestRequestQuote(t *testing.T) {
	// given
	ts := newTestServer(t)
	sid := ts.newSession()
	ts.do(http.MethodPost, "/api/v1/cart/lines", sid, `{"productId":"wk1","quantity":3,"giftMessage":"Welcome!"}`)

	// when
	anonymous := ts.do(http.MethodPost, "/api/v1/cart/quote", sid, "")

	// then
	assert.Equal(t, http.StatusUnauthorized, anonymous.status)
	assert.Equal(t, "auth_required", anonymous.body["code"])

	// given
	ts.signIn(sid)

	// when
	res := ts.do(http.MethodPost, "/api/v1/cart/quote", sid, "")

	// then
	require.Equal(t, http.StatusAccepted, res.status, res.raw)
	assert.NotEmpty(t, res.body["quote_id"])
	assert.Len(t, res.body["lines"], 1)
	assert.Equal(t, 1, ts.publisher.count())
	cart := ts.do(http.MethodGet, "/api/v1/cart", sid, "")
	assert.Equal(t, float64(0), cart.body["totalItems"])

	// when
	empty := ts.do(http.MethodPost, "/api/v1/cart/quote", sid, "")

	// then
	assert.Equal(t, http.StatusBadRequest, empty.status)
}

func TestRecommend(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(http.MethodPost, "/api/v1/recommendations", "", `{"occasion":"Anniversary"}`)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Gift ideas for Anniversary", res.body["text"])
	assert.Equal(t, false, res.body["degraded"])

	res = ts.do(http.MethodPost, "/api/v1/recommendations", "", "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Gift ideas for Holiday Gifting", res.body["text"])

	res = ts.do(http.MethodPost, "/api/v1/recommendations", "", `{"occasion":"`+strings.Repeat("x", 101)+`"}`)
	assert.Equal(t, http.StatusBadRequest, res.status)
}

func TestDashboard(t *testing.T) {
	// given
	ts := newTestServer(t)

	// when
	res := ts.do(http.MethodGet, "/api/v1/dashboard", "", "")

	// then
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.body["stats"], 4)
	assert.Len(t, res.body["spend"], 7)
	assert.Len(t, res.body["campaigns"], 4)
}
