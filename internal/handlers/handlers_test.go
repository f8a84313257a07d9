package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/coupon"
	"sack_back_end/internal/favorites"
	"sack_back_end/internal/handlers"
	"sack_back_end/internal/middleware"
	"sack_back_end/internal/notify"
	"sack_back_end/internal/order"
	"sack_back_end/internal/routes"
	"sack_back_end/internal/storage"
	"sack_back_end/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	kv := storage.NewRedisStore(client, time.Hour)
	cartStore := cart.NewStore(kv, nil)
	orderStore := order.NewStore(kv, nil)
	coupons := coupon.NewService(kv, coupon.DefaultCatalog())
	t.Cleanup(notify.BridgeToRedis(cartStore.Changes(), client,
		func(e cart.Changed) string { return cart.Channel(e.Owner) }, cart.UpdatedPayload))
	t.Cleanup(notify.BridgeToRedis(orderStore.Changes(), client,
		func(e order.Changed) string { return order.Channel(e.Owner) }, order.UpdatedPayload))

	h := &handlers.Handler{
		Cart:         cartStore,
		Coupons:      coupons,
		Orders:       orderStore,
		Builder:      order.NewBuilder(orderStore, cartStore, coupons),
		Favorites:    favorites.NewStore(kv),
		Mailer:       utils.NewMailer(utils.SMTPConfig{}),
		Redis:        client,
		UPIPayee:     "sack@upi",
		UPIPayeeName: "Sack",
	}

	r := gin.New()
	routes.RegisterRoutes(r, h, routes.Options{
		JWTSecret:     "jwt-secret",
		Sessions:      middleware.NewSessionStore("session-secret", 3600, false),
		CartRateLimit: 100,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// browser garde le cookie de session comme un navigateur
type browser struct {
	t    *testing.T
	srv  *httptest.Server
	http *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, srv: srv, http: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, body any) (int, map[string]any) {
	b.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(b.t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, b.srv.URL+path, r)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCart_AddSummaryUpdateRemove(t *testing.T) {
	b := newBrowser(t, newServer(t))

	code, body := b.do(http.MethodPost, "/api/cart/items", map[string]any{
		"serviceId": "wash-iron-1", "serviceName": "Wash & Iron", "price": 99, "quantity": 2, "washType": "standard",
	})
	require.Equal(t, http.StatusOK, code, body)

	code, body = b.do(http.MethodGet, "/api/cart/summary", nil)
	require.Equal(t, http.StatusOK, code)
	quote := body["quote"].(map[string]any)
	assert.Equal(t, 198.0, quote["subtotal"])
	assert.Equal(t, 49.0, quote["deliveryFee"])
	assert.Equal(t, 10.0, quote["tax"])
	assert.Equal(t, 257.0, quote["total"])
	assert.Equal(t, "standard", body["washType"])
	groups := body["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, cart.CategoryCoreLaundry, groups[0].(map[string]any)["category"])

	code, body = b.do(http.MethodPatch, "/api/cart/items/wash-iron-1", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3.0, body["items"].([]any)[0].(map[string]any)["quantity"])

	code, _ = b.do(http.MethodPatch, "/api/cart/items/wash-iron-1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = b.do(http.MethodDelete, "/api/cart/items/wash-iron-1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["count"])
}

func TestCart_LineRoutesScopedByStudio(t *testing.T) {
	b := newBrowser(t, newServer(t))
	for _, studio := range []string{"s1", "s2"} {
		code, body := b.do(http.MethodPost, "/api/cart/items", map[string]any{
			"serviceId": "wash-fold-1", "price": 60, "quantity": 2, "studioId": studio,
		})
		require.Equal(t, http.StatusOK, code, body)
	}

	code, _ := b.do(http.MethodPatch, "/api/cart/items/wash-fold-1?studioId=s1", map[string]any{"quantity": 4})
	require.Equal(t, http.StatusOK, code)
	_, body := b.do(http.MethodGet, "/api/cart?studioId=s2", nil)
	assert.Equal(t, 120.0, body["subtotal"])

	code, _ = b.do(http.MethodPatch, "/api/cart/items/wash-fold-1?studioId=s1", map[string]any{"quantity": 1.5})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = b.do(http.MethodDelete, "/api/cart/items/wash-fold-1?studioId=s1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, "s2", body["items"].([]any)[0].(map[string]any)["studioId"])
}

func TestCart_SummaryIgnoresCouponBelowMinimum(t *testing.T) {
	b := newBrowser(t, newServer(t))
	b.do(http.MethodPost, "/api/cart/items", map[string]any{"serviceId": "wash-iron-1", "price": 250, "quantity": 2})
	code, _ := b.do(http.MethodPost, "/api/coupons/apply", map[string]any{"code": "EXPRESS20"})
	require.Equal(t, http.StatusOK, code)

	code, _ = b.do(http.MethodPatch, "/api/cart/items/wash-iron-1", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, code)

	_, body := b.do(http.MethodGet, "/api/cart/summary", nil)
	quote := body["quote"].(map[string]any)
	assert.Equal(t, 250.0, quote["subtotal"])
	assert.Equal(t, 0.0, quote["discount"])
	assert.Equal(t, 312.0, quote["total"])
}

func TestCart_RejectsInvalidLine(t *testing.T) {
	b := newBrowser(t, newServer(t))

	code, body := b.do(http.MethodPost, "/api/cart/items", map[string]any{"serviceId": "wash-fold-1", "price": 60, "weight": 0.05})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "invalide")
}

func TestCart_OwnersAreIsolated(t *testing.T) {
	srv := newServer(t)
	alice, bob := newBrowser(t, srv), newBrowser(t, srv)

	code, _ := alice.do(http.MethodPost, "/api/cart/items", map[string]any{"serviceId": "steam-iron-1", "price": 20, "quantity": 5})
	require.Equal(t, http.StatusOK, code)

	_, body := bob.do(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 0.0, body["count"])
	_, body = alice.do(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 1.0, body["count"])
}

func TestCoupons(t *testing.T) {
	b := newBrowser(t, newServer(t))
	b.do(http.MethodPost, "/api/cart/items", map[string]any{"serviceId": "wash-iron-1", "price": 99, "quantity": 2})

	code, _ := b.do(http.MethodPost, "/api/coupons/apply", map[string]any{"code": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = b.do(http.MethodPost, "/api/coupons/apply", map[string]any{"code": "EXPRESS20"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := b.do(http.MethodPost, "/api/coupons/apply", map[string]any{"code": "fresh15"})
	require.Equal(t, http.StatusOK, code)
	quote := body["quote"].(map[string]any)
	assert.Equal(t, 30.0, quote["discount"])
	assert.Equal(t, 227.0, quote["total"])

	code, _ = b.do(http.MethodDelete, "/api/coupons/apply", nil)
	require.Equal(t, http.StatusOK, code)
	_, body = b.do(http.MethodGet, "/api/cart/summary", nil)
	assert.Equal(t, 0.0, body["quote"].(map[string]any)["discount"])
}

func TestOrders_Lifecycle(t *testing.T) {
	b := newBrowser(t, newServer(t))

	code, _ := b.do(http.MethodPost, "/api/orders", map[string]any{"address": "12 MG Road"})
	assert.Equal(t, http.StatusBadRequest, code)

	b.do(http.MethodPost, "/api/cart/items", map[string]any{
		"serviceId": "dry-clean-shirt", "serviceName": "Shirt", "price": 120, "quantity": 2, "studioName": "Fresh Folds",
		"items": []map[string]any{{"name": "Shirt", "quantity": 2}},
	})
	code, body := b.do(http.MethodPost, "/api/orders", map[string]any{"address": "12 MG Road", "instructions": "Ring twice"})
	require.Equal(t, http.StatusCreated, code, body)
	created := body["order"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "pending_payment", created["status"])
	assert.Equal(t, 301.0, created["totalAmount"])

	_, body = b.do(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 0.0, body["count"])

	_, body = b.do(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, 1.0, body["count"])

	code, body = b.do(http.MethodGet, "/api/orders/"+id+"/invoice", nil)
	require.Equal(t, http.StatusOK, code)
	inv := body["invoice"].(map[string]any)
	assert.True(t, strings.HasPrefix(inv["paymentQr"].(string), "data:image/png;base64,"))

	code, body = b.do(http.MethodPost, "/api/orders/"+id+"/pay", map[string]any{"paymentMethod": "upi"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "processing", body["order"].(map[string]any)["status"])
	assert.Equal(t, "paid", body["order"].(map[string]any)["paymentStatus"])

	code, body = b.do(http.MethodPost, "/api/orders/"+id+"/status", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "processing", body["from"])

	code, _ = b.do(http.MethodPost, "/api/orders/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = b.do(http.MethodPost, "/api/orders/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = b.do(http.MethodPost, "/api/orders/"+id+"/rating", map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = b.do(http.MethodPost, "/api/orders/"+id+"/rating", map[string]any{"rating": 5, "feedback": "Spotless"})
	require.Equal(t, http.StatusOK, code)
	_, body = b.do(http.MethodGet, "/api/orders/"+id, nil)
	assert.Equal(t, true, body["rated"])

	code, _ = b.do(http.MethodDelete, "/api/orders/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = b.do(http.MethodGet, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrders_UnknownID(t *testing.T) {
	b := newBrowser(t, newServer(t))

	code, _ := b.do(http.MethodPost, "/api/orders/missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = b.do(http.MethodPost, "/api/orders/missing/pay", map[string]any{"paymentMethod": "card"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFavorites(t *testing.T) {
	b := newBrowser(t, newServer(t))

	code, body := b.do(http.MethodPost, "/api/favorites/studios", map[string]any{"id": "s1", "name": "Sparkle"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["favorite"])

	_, body = b.do(http.MethodGet, "/api/favorites/studios", nil)
	assert.Len(t, body["studios"], 1)

	code, body = b.do(http.MethodPost, "/api/favorites/studios", map[string]any{"id": "s1"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["favorite"])

	code, _ = b.do(http.MethodPost, "/api/favorites/services", map[string]any{"name": "no id"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = b.do(http.MethodPut, "/api/favorites/payment-method", map[string]any{"paymentMethod": "card"})
	require.Equal(t, http.StatusOK, code)
	_, body = b.do(http.MethodGet, "/api/favorites/payment-method", nil)
	assert.Equal(t, "card", body["paymentMethod"])
}

func TestCartWebSocket_PushesCartOnWrite(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)
	b.do(http.MethodGet, "/api/cart", nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/cart/ws"
	header := http.Header{}
	for _, ck := range b.http.Jar.Cookies(mustURL(t, srv.URL)) {
		header.Add("Cookie", ck.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "connected", msg["type"])

	code, _ := b.do(http.MethodPost, "/api/cart/items", map[string]any{"serviceId": "shoe-clean-1", "price": 250, "quantity": 1})
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "cart_updated", msg["type"])
	assert.Equal(t, 1.0, msg["count"])
	assert.Equal(t, 250.0, msg["subtotal"])
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
