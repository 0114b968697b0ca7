package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pixa-backend/internal/client"
	"pixa-backend/internal/model"
	"pixa-backend/internal/repository"
	"pixa-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const webhookSecret = "hook-secret"

func newWebhookTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, client.Migrate(db))

	webhookSvc := service.NewWebhookService(
		db, zap.NewNop(), webhookSecret,
		repository.NewLedgerRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewPurchaseRepository(db),
	)

	e := echo.New()
	e.POST("/api/webhooks/razorpay", NewWebhookHandler(webhookSvc, zap.NewNop()).RazorpayWebhook)
	return e, db
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(e *echo.Echo, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func eventBody(t *testing.T, event, paymentID string, notes map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"event": event,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{"id": paymentID, "notes": notes},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestWebhook_InvalidSignature(t *testing.T) {
	e, db := newWebhookTestServer(t)
	require.NoError(t, db.Create(&model.UserLedger{UserID: "U", Credits: 10}).Error)

	body := eventBody(t, "payment.captured", "pay_1", map[string]string{"userId": "U", "credits": "50"})

	rec := postWebhook(e, body, "bad-signature")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, rec.Body.String())

	// regardless of payload contents, nothing was written
	var ledger model.UserLedger
	require.NoError(t, db.First(&ledger, "user_id = ?", "U").Error)
	assert.Equal(t, 10, ledger.Credits)

	var purchases int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&purchases).Error)
	assert.EqualValues(t, 0, purchases)
}

func TestWebhook_TamperedBody(t *testing.T) {
	e, db := newWebhookTestServer(t)
	require.NoError(t, db.Create(&model.UserLedger{UserID: "U", Credits: 10}).Error)

	body := eventBody(t, "payment.captured", "pay_1", map[string]string{"userId": "U", "credits": "50"})
	signature := sign(body)
	tampered := []byte(strings.Replace(string(body), `"50"`, `"5000"`, 1))

	rec := postWebhook(e, tampered, signature)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_Processed(t *testing.T) {
	e, db := newWebhookTestServer(t)
	require.NoError(t, db.Create(&model.UserLedger{UserID: "U", Credits: 10}).Error)

	body := eventBody(t, "payment.captured", "pay_1", map[string]string{
		"userId": "U", "credits": "50", "price": "499",
	})

	rec := postWebhook(e, body, sign(body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	// replay acknowledges identically without a second grant
	rec = postWebhook(e, body, sign(body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	var ledger model.UserLedger
	require.NoError(t, db.First(&ledger, "user_id = ?", "U").Error)
	assert.Equal(t, 60, ledger.Credits)
}

func TestWebhook_MissingMetadataWarns(t *testing.T) {
	e, _ := newWebhookTestServer(t)

	body := eventBody(t, "payment.captured", "pay_1", map[string]string{"credits": "50"})

	rec := postWebhook(e, body, sign(body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","warning":"Metadata missing"}`, rec.Body.String())
}

func TestWebhook_UnhandledEventIgnored(t *testing.T) {
	e, _ := newWebhookTestServer(t)

	body := eventBody(t, "payment.failed", "pay_1", map[string]string{"userId": "U", "credits": "50"})

	rec := postWebhook(e, body, sign(body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
}

func TestWebhook_MissingUserIs500(t *testing.T) {
	e, db := newWebhookTestServer(t)

	body := eventBody(t, "payment.captured", "pay_1", map[string]string{"userId": "ghost", "credits": "50"})

	rec := postWebhook(e, body, sign(body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal processing error"}`, rec.Body.String())

	var purchases int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&purchases).Error)
	assert.EqualValues(t, 0, purchases)
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	e, _ := newWebhookTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/razorpay", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
