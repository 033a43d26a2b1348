package adaptor

import (
	"context"
	"time"

	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockReservationService struct{ mock.Mock }

func (m *mockReservationService) Create(ctx context.Context, p utils.Principal, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	args := m.Called(ctx, p, req)
	r, _ := args.Get(0).(*response.ReservationResponse)
	return r, args.Error(1)
}

func (m *mockReservationService) Update(ctx context.Context, p utils.Principal, id string, req *request.UpdateReservationRequest) (*response.ReservationResponse, error) {
	args := m.Called(ctx, p, id, req)
	r, _ := args.Get(0).(*response.ReservationResponse)
	return r, args.Error(1)
}

func (m *mockReservationService) Delete(ctx context.Context, p utils.Principal, id string) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockReservationService) Get(ctx context.Context, p utils.Principal, id string) (*response.ReservationResponse, error) {
	args := m.Called(ctx, p, id)
	r, _ := args.Get(0).(*response.ReservationResponse)
	return r, args.Error(1)
}

func (m *mockReservationService) List(ctx context.Context, p utils.Principal, req *request.ReservationListRequest) ([]response.ReservationResponse, error) {
	args := m.Called(ctx, p, req)
	r, _ := args.Get(0).([]response.ReservationResponse)
	return r, args.Error(1)
}

func (m *mockReservationService) CheckAvailability(ctx context.Context, cabinID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, cabinID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReservationService) GetPrice(ctx context.Context, p utils.Principal, id string) (*response.PriceResponse, error) {
	args := m.Called(ctx, p, id)
	r, _ := args.Get(0).(*response.PriceResponse)
	return r, args.Error(1)
}

func (m *mockReservationService) GetInvoice(ctx context.Context, p utils.Principal, id string) (string, error) {
	args := m.Called(ctx, p, id)
	return args.String(0), args.Error(1)
}

type mockCabinService struct{ mock.Mock }

func (m *mockCabinService) List(ctx context.Context, req *request.CabinListRequest) (*response.PaginatedResponse[response.CabinResponse], error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*response.PaginatedResponse[response.CabinResponse])
	return r, args.Error(1)
}

func (m *mockCabinService) Get(ctx context.Context, id string) (*response.CabinResponse, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*response.CabinResponse)
	return r, args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*response.AuthResponse)
	return r, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*response.AuthResponse)
	return r, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
