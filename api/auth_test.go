package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/service/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserUseCase is a mock implementation of users.UserUseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, input users.Credentials) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) Login(ctx context.Context, input users.Credentials) (string, *domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockUserUseCase) UserByToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func TestAuthHandler_register(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(credentialsRequest{Email: "alice@example.com", Password: "secret1"})
	c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Register", c.Request.Context(), users.Credentials{Email: "alice@example.com", Password: "secret1"}).
		Return(&domain.User{ID: 5, Email: "alice@example.com", Role: domain.RoleUser}, nil)

	handler.register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response userResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", response.Email)
	assert.Equal(t, string(domain.RoleUser), response.Role)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_register_emailTaken(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(credentialsRequest{Email: "alice@example.com", Password: "secret1"})
	c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Register", c.Request.Context(), mock.Anything).Return(nil, domain.ErrEmailTaken)

	handler.register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_login(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(credentialsRequest{Email: "alice@example.com", Password: "secret1"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Login", c.Request.Context(), users.Credentials{Email: "alice@example.com", Password: "secret1"}).
		Return("tok-1", &domain.User{ID: 5, Email: "alice@example.com", Role: domain.RoleUser}, nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", response.Token)
	assert.Equal(t, int64(5), response.User.ID)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_login_badCredentials(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(credentialsRequest{Email: "alice@example.com", Password: "wrong"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Login", c.Request.Context(), mock.Anything).Return("", nil, domain.ErrUnauthenticated)

	handler.login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}

func TestAuthenticate_setsUser(t *testing.T) {
	mockService := &MockUserUseCase{}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings", nil)
	c.Request.Header.Set("Authorization", "Bearer tok-1")

	stored := &domain.User{ID: 5, Email: "alice@example.com", Role: domain.RoleUser}
	mockService.On("UserByToken", c.Request.Context(), "tok-1").Return(stored, nil)

	Authenticate(mockService)(c)

	user, ok := currentUser(c)
	assert.True(t, ok)
	assert.Equal(t, *stored, user)
	assert.False(t, c.IsAborted())

	mockService.AssertExpectations(t)
}

func TestAuthenticate_missingHeader(t *testing.T) {
	mockService := &MockUserUseCase{}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings", nil)

	Authenticate(mockService)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	mockService.AssertNotCalled(t, "UserByToken")
}

func TestAuthenticate_badToken(t *testing.T) {
	mockService := &MockUserUseCase{}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/bookings", nil)
	c.Request.Header.Set("Authorization", "Bearer expired")

	mockService.On("UserByToken", c.Request.Context(), "expired").Return(nil, domain.ErrUnauthenticated)

	Authenticate(mockService)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	mockService.AssertExpectations(t)
}
