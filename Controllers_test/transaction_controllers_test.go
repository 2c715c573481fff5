package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/controllers"
	"github.com/nadiraputri/catering-app/middlewares"
	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/services"
	"github.com/nadiraputri/catering-app/utils"
)

func setupTestDBForTransactions() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:txctrl?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.BatchOrder{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupTransactionRouter(db *gorm.DB, snap *services.SnapClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares.CORSMiddlewares())
	txCtrl := controllers.NewTransactionController(services.NewTransactionService(db, snap))
	router.POST("/payments/token", txCtrl.CreateSnapToken)
	return router
}

func newSnapGateway(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}))
}

func snapClientFor(server *httptest.Server) *services.SnapClient {
	return services.NewSnapClient(&services.SnapConfig{
		ServerKey: "test-server-key",
		BaseURL:   server.URL,
	})
}

func TestCreateSnapTokenEndpointSuccess(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTransactions()
	gateway := newSnapGateway(http.StatusOK,
		`{"token":"tok-abc","redirect_url":"https://app.sandbox.midtrans.com/snap/v2/vtweb/tok-abc"}`)
	defer gateway.Close()
	router := setupTransactionRouter(db, snapClientFor(gateway))

	payload := map[string]interface{}{
		"orderId": "ORD-20260828120000-ab12",
		"amount":  50000,
		"itemDetails": []map[string]interface{}{
			{"id": "1", "name": "Nasi Ayam", "price": 15000, "quantity": 2},
			{"id": "2", "name": "Es Teh", "price": 20000, "quantity": 1},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/payments/token", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", resp["snap_token"])
	assert.Equal(t, "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok-abc", resp["redirect_url"])

	// CORS headers ride on every response for the browser widget.
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateSnapTokenEndpointValidationError(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTransactions()
	gateway := newSnapGateway(http.StatusOK, `{"token":"tok-abc","redirect_url":"https://example.test"}`)
	defer gateway.Close()
	router := setupTransactionRouter(db, snapClientFor(gateway))

	payload := map[string]interface{}{"amount": 50000} // no orderId
	payloadBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/payments/token", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "InvalidRequest", resp["type"])
	assert.Equal(t, "orderId is required", resp["error"])
}

func TestCreateSnapTokenEndpointMalformedBody(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTransactions()
	gateway := newSnapGateway(http.StatusOK, `{"token":"tok-abc"}`)
	defer gateway.Close()
	router := setupTransactionRouter(db, snapClientFor(gateway))

	req, _ := http.NewRequest("POST", "/payments/token", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "InvalidRequest", resp["type"])
	assert.NotEmpty(t, resp["details"])
}

func TestCreateSnapTokenEndpointGatewayError(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTransactions()
	gateway := newSnapGateway(http.StatusUnauthorized,
		`{"error_messages":["Access denied due to unauthorized transaction"]}`)
	defer gateway.Close()
	router := setupTransactionRouter(db, snapClientFor(gateway))

	payload := map[string]interface{}{"orderId": "ORD-1", "amount": 50000}
	payloadBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/payments/token", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "GatewayError", resp["type"])
	// The raw gateway body is passed through for debugging.
	assert.Contains(t, resp["details"], "Access denied due to unauthorized transaction")
}

func TestCreateSnapTokenEndpointPreflight(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTransactions()
	gateway := newSnapGateway(http.StatusOK, `{"token":"tok-abc"}`)
	defer gateway.Close()
	router := setupTransactionRouter(db, snapClientFor(gateway))

	req, _ := http.NewRequest("OPTIONS", "/payments/token", nil)
	req.Header.Set("Origin", "https://catering.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type",
		w.Header().Get("Access-Control-Allow-Headers"))
}
