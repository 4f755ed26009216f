package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/internal/middleware"
	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/service"
	"github.com/GTDGit/inventory_api/internal/utils"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDevices struct {
	rows       map[int]models.Device
	lastParams listquery.Params
	deleted    []int
}

func (f *fakeDevices) Resource() models.Resource { return models.ResourceDevice }
func (f *fakeDevices) FilterKeys() []string      { return []string{"name"} }

func (f *fakeDevices) List(_ context.Context, params listquery.Params) (*listquery.Page[models.Device], error) {
	f.lastParams = params
	items := []models.Device{}
	for _, d := range f.rows {
		items = append(items, d)
	}
	return listquery.NewPage(items, params, len(items)), nil
}

func (f *fakeDevices) Get(_ context.Context, id int) (*models.Device, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, utils.NotFound("device")
	}
	return &d, nil
}

func (f *fakeDevices) Create(_ context.Context, req *service.DeviceRequest) (*models.Device, error) {
	if req.Name == "taken" {
		return nil, utils.Conflict("DUPLICATE", "device already exists", nil)
	}
	d := models.Device{ID: len(f.rows) + 1, Name: req.Name, Description: req.Description}
	f.rows[d.ID] = d
	return &d, nil
}

func (f *fakeDevices) Update(_ context.Context, id int, req *service.DevicePatch) (*models.Device, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, utils.NotFound("device")
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	f.rows[id] = d
	return &d, nil
}

func (f *fakeDevices) Delete(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return utils.NotFound("device")
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func deviceRouter(f *fakeDevices) *gin.Engine {
	r := gin.New()
	NewResourceHandler[models.Device, service.DeviceRequest, service.DevicePatch](f).Register(r)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestResourceListParsesParams(t *testing.T) {
	f := &fakeDevices{rows: map[int]models.Device{1: {ID: 1, Name: "Pixel"}}}
	w := do(deviceRouter(f), http.MethodGet, "/device?page=2&limit=5&order_by=name&order_direction=desc&name=pix&ignored=x", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, f.lastParams.Page)
	require.Equal(t, 5, f.lastParams.Limit)
	require.Equal(t, listquery.Order{By: "name", Direction: listquery.Desc}, f.lastParams.Order)
	require.Equal(t, map[string]string{"name": "pix"}, f.lastParams.Filter)

	var page listquery.Page[models.Device]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	require.Equal(t, 2, page.PaginationData.CurrentPage)
	require.Equal(t, "name", page.OrderData.OrderBy)
}

func TestResourceListRejectsBadParams(t *testing.T) {
	f := &fakeDevices{rows: map[int]models.Device{}}
	w := do(deviceRouter(f), http.MethodGet, "/device?limit=1000", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	require.Equal(t, "INVALID_QUERY", body.Error)
	require.NotEmpty(t, body.Message)
}

func TestResourceGet(t *testing.T) {
	f := &fakeDevices{rows: map[int]models.Device{1: {ID: 1, Name: "Pixel"}}}
	r := deviceRouter(f)

	w := do(r, http.MethodGet, "/device/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":1,"name":"Pixel","description":""}`, w.Body.String())

	w = do(r, http.MethodGet, "/device/2", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "device not found", decodeError(t, w).Message)

	w = do(r, http.MethodGet, "/device/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_ID", decodeError(t, w).Error)
}

func TestResourceCreate(t *testing.T) {
	f := &fakeDevices{rows: map[int]models.Device{}}
	r := deviceRouter(f)

	w := do(r, http.MethodPost, "/device", `{"name":"Pixel","description":"lab"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "lab", f.rows[1].Description)

	w = do(r, http.MethodPost, "/device", `{"name":"taken"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "DUPLICATE", decodeError(t, w).Error)

	w = do(r, http.MethodPost, "/device", `{`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResourceUpdateAndDelete(t *testing.T) {
	f := &fakeDevices{rows: map[int]models.Device{1: {ID: 1, Name: "Pixel"}}}
	r := deviceRouter(f)

	w := do(r, http.MethodPatch, "/device/1", `{"name":"Galaxy"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Galaxy", f.rows[1].Name)

	w = do(r, http.MethodDelete, "/device/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"device 1 deleted"}`, w.Body.String())
	require.Equal(t, []int{1}, f.deleted)

	w = do(r, http.MethodDelete, "/device/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

type fakeMessenger struct{}

func (fakeMessenger) ForTransaction(_ context.Context, id int) (string, error) {
	if id == 404 {
		return "", utils.NotFound("transaction")
	}
	return "Email: a@b.c", nil
}

func (fakeMessenger) ForAccountUser(_ context.Context, id int) (string, error) {
	return "Profile 1", nil
}

func TestMessageHandler(t *testing.T) {
	h := NewMessageHandler(fakeMessenger{})
	r := gin.New()
	r.GET("/transaction/:id/message", h.Transaction)
	r.GET("/product-account-user/:id/message", h.AccountUser)

	w := do(r, http.MethodGet, "/transaction/1/message", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Email: a@b.c"}`, w.Body.String())

	w = do(r, http.MethodGet, "/transaction/404/message", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/product-account-user/3/message", "")
	require.JSONEq(t, `{"message":"Profile 1"}`, w.Body.String())
}

type fakeAuth struct {
	calls int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*service.LoginResult, error) {
	f.calls++
	if password != "secret" {
		return nil, utils.ErrInvalidCredentials
	}
	return &service.LoginResult{Token: "tok", User: &models.AdminUser{ID: 1, Email: email}}, nil
}

func TestAuthLoginRateLimitsFailures(t *testing.T) {
	auth := &fakeAuth{}
	h := NewAuthHandler(auth, middleware.NewInvalidAuthRateLimiter(2, time.Minute))
	r := gin.New()
	r.POST("/auth/login", h.Login)

	bad := `{"email":"admin@example.com","password":"nope"}`
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/auth/login", bad).Code)
	require.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/auth/login", bad).Code)

	w := do(r, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"secret"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, 2, auth.calls)
}

func TestAuthLogin(t *testing.T) {
	h := NewAuthHandler(&fakeAuth{}, middleware.NewInvalidAuthRateLimiter(5, time.Minute))
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := do(r, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res service.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, "tok", res.Token)

	w = do(r, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	r := gin.New()
	r.GET("/health", NewHealthHandler(ok, nil).GetHealth)
	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"redis":"disabled"`)

	r = gin.New()
	r.GET("/health", NewHealthHandler(ok, down).GetHealth)
	w = do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"redis":"disconnected"`)

	r = gin.New()
	r.GET("/health", NewHealthHandler(down, ok).GetHealth)
	w = do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
