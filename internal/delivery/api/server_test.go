package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tienda/config"
	apimiddleware "tienda/internal/delivery/api/middleware"
	"tienda/internal/delivery/api/response"
	"tienda/internal/delivery/api/router"
	"tienda/internal/delivery/api/router/handler"
	deliverycontext "tienda/internal/delivery/context"
	"tienda/internal/domain/entity"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/domain/repository"
	"tienda/internal/infra/auth"
	"tienda/internal/usecase/impl"
)

// memoryUserRepository enforces usuario uniqueness under one lock, standing in
// for the unique index.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*entity.User
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return domainerrors.ErrUserAlreadyExists.WrapMessage("usuario already exists")
	}

	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.Username] = &stored

	return nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *user

	return &found, nil
}

type memoryProductRepository struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]entity.Product
}

func (r *memoryProductRepository) List(context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		product := r.products[id]
		out = append(out, &product)
	}

	return out, nil
}

func (r *memoryProductRepository) FindByID(_ context.Context, id int64) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return &product, nil
}

func (r *memoryProductRepository) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = *product

	return nil
}

func (r *memoryProductRepository) Update(_ context.Context, product *entity.Product) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil, repository.ErrProductNotFound
	}
	r.products[product.ID] = *product
	stored := *product

	return &stored, nil
}

func (r *memoryProductRepository) Delete(_ context.Context, id int64) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	delete(r.products, id)

	return &product, nil
}

type testApp struct {
	echo  *echo.Echo
	users *memoryUserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "e2e_access_secret_key_for_tests"

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)

	users := &memoryUserRepository{users: map[string]*entity.User{}}
	products := &memoryProductRepository{products: map[int64]entity.Product{}}

	routerParams := router.RouterParams{
		UserHandler: handler.NewUserHandler(handler.UserHandlerParams{
			UserUC: impl.NewUserService(impl.UserServiceParams{
				UserRepo:     users,
				Hasher:       hasher,
				TokenService: tokenService,
				Logger:       logger,
			}),
			Logger: logger,
		}),
		ProductHandler: handler.NewProductHandler(handler.ProductHandlerParams{
			ProductUC: impl.NewProductService(impl.ProductServiceParams{
				ProductRepo: products,
				Logger:      logger,
			}),
			Logger: logger,
		}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(tokenService, logger),
	}

	return &testApp{
		echo:  NewEcho(cfg, logger, routerParams),
		users: users,
	}
}

func (a *testApp) do(method, target, contentType, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)

	return rec
}

func (a *testApp) json(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.do(method, target, echo.MIMEApplicationJSON, body, cookies...)
}

func (a *testApp) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	rec := a.json(http.MethodPost, "/login", `{"usuario":"`+username+`","clave":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == deliverycontext.CookieToken {
			return cookie
		}
	}
	t.Fatal("login did not set the token cookie")

	return nil
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	require.NotNil(t, body.Error)

	return body
}

func TestEndToEnd_RegisterLoginAndCreateProduct(t *testing.T) {
	app := newTestApp(t)

	rec := app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Usuario registrado correctamente", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "pw123")

	cookie := app.login(t, "ana1", "pw123")

	rec = app.json(http.MethodPost, "/productos", `{"nombre":"X","marca":"Y","categoria":"Z","stock":5,"precio":9.99}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.json(http.MethodPost, "/productos", `{"nombre":"X","marca":"Y","categoria":"Z","stock":5,"precio":9.99}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created handler.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, handler.ProductResponse{ID: created.ID, Name: "X", Brand: "Y", Category: "Z", Stock: 5, Price: 9.99}, created)

	rec = app.do(http.MethodGet, "/productos/abc", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/productos/999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Producto no encontrado", decodeErrorBody(t, rec).Error.Message)
}

func TestLogin_CookieFlags(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`).Code)

	rec := app.json(http.MethodPost, "/login", `{"usuario":"ana1","clave":"pw123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Inicio de sesión exitoso", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.True(t, cookie.Expires.IsZero())
	assert.Zero(t, cookie.MaxAge)
}

func TestLogin_NoUserEnumeration(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`).Code)

	unknown := app.json(http.MethodPost, "/login", `{"usuario":"nadie","clave":"pw123"}`)
	wrong := app.json(http.MethodPost, "/login", `{"usuario":"ana1","clave":"otra"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)

	unknownBody := decodeErrorBody(t, unknown)
	wrongBody := decodeErrorBody(t, wrong)
	assert.Equal(t, unknownBody.Error, wrongBody.Error)
	assert.Equal(t, "Usuario o contraseña incorrectos", unknownBody.Error.Message)
	assert.Empty(t, unknown.Result().Cookies())
	assert.Empty(t, wrong.Result().Cookies())
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`).Code)

	rec := app.json(http.MethodPost, "/register", `{"nombre":"Otra","usuario":"ana1","clave":"otra"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", decodeErrorBody(t, rec).Error.Code)
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	app := newTestApp(t)

	const attempts = 2
	statuses := make([]int, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i] = app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`).Code
		}(i)
	}
	wg.Wait()

	slices.Sort(statuses)
	assert.Equal(t, []int{http.StatusCreated, http.StatusConflict}, statuses)
	assert.Len(t, app.users.users, 1)
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing clave", body: `{"nombre":"Ana","usuario":"ana1"}`},
		{name: "missing usuario", body: `{"nombre":"Ana","clave":"pw123"}`},
		{name: "malformed json", body: `{"nombre":`},
		{name: "usuario too long", body: `{"nombre":"Ana","usuario":"` + strings.Repeat("a", 101) + `","clave":"pw123"}`},
		{name: "nombre too long", body: `{"nombre":"` + strings.Repeat("a", 101) + `","usuario":"ana1","clave":"pw123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.json(http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_FAILED", decodeErrorBody(t, rec).Error.Code)
		})
	}
}

func TestRegister_FormBody(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"nombre": {"Ana"}, "usuario": {"ana1"}, "clave": {"pw123"}}
	rec := app.do(http.MethodPost, "/register", echo.MIMEApplicationForm, form.Encode())
	require.Equal(t, http.StatusCreated, rec.Code)

	app.login(t, "ana1", "pw123")
}

func TestProducts_CRUD(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/productos", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.Equal(t, http.StatusCreated, app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`).Code)
	cookie := app.login(t, "ana1", "pw123")

	rec = app.json(http.MethodPost, "/productos", `{"nombre":"X","marca":"Y","categoria":"Z","stock":5,"precio":9.99}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	form := url.Values{"nombre": {"W"}, "stock": {"1"}, "precio": {"2.5"}}
	rec = app.do(http.MethodPost, "/productos", echo.MIMEApplicationForm, form.Encode(), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/productos", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []handler.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "X", listed[0].Name)
	assert.Equal(t, "W", listed[1].Name)
	assert.Equal(t, 2.5, listed[1].Price)

	rec = app.do(http.MethodGet, "/productos/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"nombre":"X","marca":"Y","categoria":"Z","stock":5,"precio":9.99}`, rec.Body.String())

	rec = app.json(http.MethodPut, "/productos/1", `{"nombre":"X2","stock":0,"precio":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.json(http.MethodPut, "/productos/1", `{"nombre":"X2","stock":0,"precio":1}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"nombre":"X2","marca":"","categoria":"","stock":0,"precio":1}`, rec.Body.String())

	rec = app.json(http.MethodPut, "/productos/42", `{"nombre":"X2"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.json(http.MethodPut, "/productos/1", `{"nombre":"X2","stock":-1}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.json(http.MethodPut, "/productos/1", `{"nombre":"X2","stock":2147483648}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.json(http.MethodPost, "/productos", `{"nombre":"`+strings.Repeat("n", 256)+`"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodDelete, "/productos/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodDelete, "/productos/1", "", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Producto eliminado","producto":{"id":1,"nombre":"X2","marca":"","categoria":"","stock":0,"precio":1}}`, rec.Body.String())

	rec = app.do(http.MethodDelete, "/productos/1", "", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, "/productos/abc", "", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_TamperedCookieRejected(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, app.json(http.MethodPost, "/register", `{"nombre":"Ana","usuario":"ana1","clave":"pw123"}`).Code)
	cookie := app.login(t, "ana1", "pw123")

	parts := strings.Split(cookie.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	forged := &http.Cookie{Name: deliverycontext.CookieToken, Value: parts[0] + "." + parts[1] + "." + string(sig)}

	rec := app.json(http.MethodPost, "/productos", `{"nombre":"X"}`, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Acceso no autorizado", decodeErrorBody(t, rec).Error.Message)
}

func TestServer_AmbientMiddleware(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get(echo.HeaderXFrameOptions))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "client-id-1")
	rec = httptest.NewRecorder()
	app.echo.ServeHTTP(rec, req)
	assert.Equal(t, "client-id-1", rec.Header().Get(deliverycontext.HeaderXRequestID))

	rec = app.do(http.MethodGet, "/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	big := `{"nombre":"` + strings.Repeat("a", 200*1024) + `","usuario":"x","clave":"y"}`
	rec = app.json(http.MethodPost, "/register", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
