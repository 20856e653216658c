package notification

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"secondbrain/auth-api/internal"
	"secondbrain/auth-api/internal/model"
	"secondbrain/auth-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newNotificationTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.Notification{}))

	d := &internal.Deps{DB: db}

	// The session gate sits in front of these routes in the real router,
	// its behavior is covered by its own tests
	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())
	r.POST("/notifications", func(c *gin.Context) { Create(c, d) })
	r.GET("/notifications", func(c *gin.Context) { FetchBulk(c, d) })
	r.GET("/notifications/:id", func(c *gin.Context) { Fetch(c, d) })
	r.PATCH("/notifications/:id", func(c *gin.Context) { Edit(c, d) })
	r.DELETE("/notifications/:id", func(c *gin.Context) { Delete(c, d) })

	return r, db
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func create(t *testing.T, r *gin.Engine, userID, targetID, content string) model.Notification {
	t.Helper()

	w := do(r, http.MethodPost, "/notifications", map[string]string{
		"userId":   userID,
		"targetId": targetID,
		"content":  content,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var noti model.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &noti))
	return noti
}

func TestCreate(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	noti := create(t, r, "user-1", "user-2", "hello")
	assert.NotEmpty(t, noti.ID)
	assert.Equal(t, model.NotificationUnread, noti.Status)
}

func TestCreate_MissingFields(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	w := do(r, http.MethodPost, "/notifications", map[string]string{
		"userId":  "user-1",
		"content": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFetch(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	noti := create(t, r, "user-1", "user-2", "hello")

	w := do(r, http.MethodGet, "/notifications/"+noti.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"hello"`)

	w = do(r, http.MethodGet, "/notifications/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFetchBulk(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	create(t, r, "user-1", "user-2", "first")
	create(t, r, "user-1", "user-3", "second")
	create(t, r, "user-2", "user-1", "third")

	w := do(r, http.MethodGet, "/notifications?userId=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notis []model.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notis))
	assert.Len(t, notis, 2)

	w = do(r, http.MethodGet, "/notifications?targetId=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	notis = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notis))
	require.Len(t, notis, 1)
	assert.Equal(t, "third", notis[0].Content)
}

func TestFetchBulk_RequiresExactlyOneFilter(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	w := do(r, http.MethodGet, "/notifications", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/notifications?userId=a&targetId=b", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEdit(t *testing.T) {
	r, db := newNotificationTestRouter(t)

	noti := create(t, r, "user-1", "user-2", "hello")

	w := do(r, http.MethodPatch, "/notifications/"+noti.ID, map[string]string{
		"status": model.NotificationRead,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored model.Notification
	require.NoError(t, db.Where("id = ?", noti.ID).First(&stored).Error)
	assert.Equal(t, model.NotificationRead, stored.Status)
	assert.Equal(t, "hello", stored.Content)
}

func TestEdit_InvalidStatus(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	noti := create(t, r, "user-1", "user-2", "hello")

	w := do(r, http.MethodPatch, "/notifications/"+noti.ID, map[string]string{
		"status": "archived",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEdit_NotFound(t *testing.T) {
	r, _ := newNotificationTestRouter(t)

	w := do(r, http.MethodPatch, "/notifications/missing", map[string]string{
		"status": model.NotificationRead,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	r, db := newNotificationTestRouter(t)

	noti := create(t, r, "user-1", "user-2", "hello")

	w := do(r, http.MethodDelete, "/notifications/"+noti.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Zero(t, count)

	// Deleting something that isn't there still succeeds
	w = do(r, http.MethodDelete, "/notifications/"+noti.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
