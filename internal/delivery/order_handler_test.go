package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"covercart-backend/internal/domain"
	"covercart-backend/internal/metrics"
	"covercart-backend/internal/repository/memory"
	"covercart-backend/internal/service"
)

func testRouter(t *testing.T, covers ...domain.Cover) (*gin.Engine, domain.CoverStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	coverStore := memory.NewCoverStore(covers...)
	m := metrics.NewOrderMetricsWith(prometheus.NewRegistry())
	svc := service.NewOrderService(coverStore, memory.NewOrderStore(), memory.NewSummaryStore(), nil, m, logger)

	r := gin.New()
	h := NewOrderHandler(svc, nil, logger)
	ch := NewCoverHandler(coverStore, logger)
	r.POST("/api/orders", h.Place)
	r.GET("/api/covers", ch.List)
	r.GET("/api/covers/:id", ch.Get)
	return r, coverStore
}

func placeOrderBody(coverID primitive.ObjectID, qty int) string {
	return fmt.Sprintf(`{
		"name": "Karim Ahmed",
		"phone": "01712345678",
		"address": "Mirpur 10, Dhaka",
		"cartItems": [{"productId": %q, "name": "P1", "quantity": %d, "price": 500}],
		"deliveryCharge": 60,
		"totalPrice": %d
	}`, coverID.Hex(), qty, qty*500)
}

func TestPlaceOrderEndpoint_Success(t *testing.T) {
	p1 := primitive.NewObjectID()
	r, covers := testRouter(t, domain.Cover{ID: p1, Name: "P1", Price: 500, Stock: 5})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(placeOrderBody(p1, 2)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Message string `json:"message"`
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.OrderID)

	cover, err := covers.FindByID(req.Context(), p1)
	require.NoError(t, err)
	assert.Equal(t, 3, cover.Stock)
}

func TestPlaceOrderEndpoint_MissingName(t *testing.T) {
	p1 := primitive.NewObjectID()
	r, _ := testRouter(t, domain.Cover{ID: p1, Name: "P1", Price: 500, Stock: 5})

	body := strings.Replace(placeOrderBody(p1, 1), `"Karim Ahmed"`, `""`, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")
}

func TestPlaceOrderEndpoint_InsufficientStock(t *testing.T) {
	p1 := primitive.NewObjectID()
	r, _ := testRouter(t, domain.Cover{ID: p1, Name: "P1", Price: 500, Stock: 1})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(placeOrderBody(p1, 2)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestPlaceOrderEndpoint_UnknownProduct(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(placeOrderBody(primitive.NewObjectID(), 1)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestPlaceOrderEndpoint_WrongTypeField(t *testing.T) {
	p1 := primitive.NewObjectID()
	r, _ := testRouter(t, domain.Cover{ID: p1, Name: "P1", Price: 500, Stock: 5})

	body := strings.Replace(placeOrderBody(p1, 1), `"deliveryCharge": 60`, `"deliveryCharge": "sixty"`, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "deliveryCharge")
}

func TestPlaceOrderEndpoint_MalformedJSON(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// downCovers fails every lookup the way a lost database connection would.
type downCovers struct {
	domain.CoverStore
}

func (downCovers) FindByID(context.Context, primitive.ObjectID) (domain.Cover, error) {
	return domain.Cover{}, errors.New("server selection timeout")
}

// An unavailable datastore is a 500 with a generic body; the driver's error
// text must not reach the customer.
func TestPlaceOrderEndpoint_StoreDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	m := metrics.NewOrderMetricsWith(prometheus.NewRegistry())
	svc := service.NewOrderService(downCovers{}, memory.NewOrderStore(), memory.NewSummaryStore(), nil, m, logger)

	r := gin.New()
	h := NewOrderHandler(svc, nil, logger)
	r.POST("/api/orders", h.Place)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(placeOrderBody(primitive.NewObjectID(), 1)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), "timeout")
}

func TestCoverEndpoints(t *testing.T) {
	p1 := primitive.NewObjectID()
	r, _ := testRouter(t, domain.Cover{ID: p1, Name: "Matte Black", Brand: "apex", Price: 450, Stock: 7})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/covers?search=matte", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Matte Black")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/covers/"+p1.Hex(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/covers/not-a-hex-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/covers/"+primitive.NewObjectID().Hex(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
