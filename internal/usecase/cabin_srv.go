package usecase

import (
	"context"
	"fmt"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"

	"go.uber.org/zap"
)

// CabinService is the read side of the catalog.
type CabinService interface {
	List(ctx context.Context, req *request.CabinListRequest) (*response.PaginatedResponse[response.CabinResponse], error)
	Get(ctx context.Context, cabinID string) (*response.CabinResponse, error)
}

type cabinService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCabinService(repo *repository.Repository, log *zap.Logger) CabinService {
	return &cabinService{
		repo: repo,
		log:  log.With(zap.String("service", "cabin")),
	}
}

func (s *cabinService) List(ctx context.Context, req *request.CabinListRequest) (*response.PaginatedResponse[response.CabinResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.CabinFilter{
		Area:    req.Area,
		ZipCode: req.ZipCode,
		MinBeds: req.NumOfBeds,
	}

	cabins, err := s.repo.Cabin.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list cabins: %w", err)
	}

	total, err := s.repo.Cabin.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count cabins: %w", err)
	}

	data := make([]response.CabinResponse, 0, len(cabins))
	for _, c := range cabins {
		data = append(data, response.CabinToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *cabinService) Get(ctx context.Context, cabinID string) (*response.CabinResponse, error) {
	id, err := parseID("cabin", cabinID)
	if err != nil {
		return nil, err
	}

	cabin, err := s.repo.Cabin.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cabin: %w", err)
	}
	if cabin == nil {
		return nil, fmt.Errorf("cabin %s: %w", cabinID, booking.ErrNotFound)
	}

	resp := response.CabinToResponse(cabin)
	return &resp, nil
}
