package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"renthub_backend/internal/logger"
	"renthub_backend/internal/models"
	"renthub_backend/internal/repositories"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

type ItemService interface {
	Create(ctx context.Context, ownerID string, req *dto.CreateItemRequest) (*dto.ItemResponse, error)
	Update(ctx context.Context, ownerID, itemID string, req *dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, itemID string) (*dto.ItemResponse, error)
	List(ctx context.Context, city string, page, pageSize int) (*dto.ItemListResponse, error)
	ListMine(ctx context.Context, ownerID string) ([]*dto.ItemResponse, error)
	SetAvailability(ctx context.Context, ownerID, itemID string, available bool) error
	Moderate(ctx context.Context, itemID string, status models.ModerationStatus) error
}

type itemService struct {
	itemRepo     repositories.ItemRepository
	availability AvailabilityService
	now          func() time.Time
}

func NewItemService(itemRepo repositories.ItemRepository, availability AvailabilityService) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		availability: availability,
		now:          time.Now,
	}
}

func (s *itemService) Create(ctx context.Context, ownerID string, req *dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if ownerID == "" {
		return nil, apperrors.ErrSignInRequired
	}

	item := &models.Item{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		PricePerDay: req.PricePerDay,
		DepositFee:  req.DepositFee,
		City:        req.City,
		IsAvailable: true,
		Moderation:  models.ModerationStatusPending,
		Photos:      marshalPhotos(req.Photos),
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, apperrors.TransientError(err)
	}
	return buildItemResponse(item), nil
}

func (s *itemService) Update(ctx context.Context, ownerID, itemID string, req *dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.findItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.NewForbiddenError("Only the owner can edit this item")
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.PricePerDay != nil {
		item.PricePerDay = *req.PricePerDay
	}
	if req.DepositFee != nil {
		item.DepositFee = *req.DepositFee
	}
	if req.City != nil {
		item.City = *req.City
	}
	if req.Photos != nil {
		item.Photos = marshalPhotos(req.Photos)
	}

	if err := s.itemRepo.Update(item); err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.TransientError(err)
	}
	return buildItemResponse(item), nil
}

func (s *itemService) Get(ctx context.Context, itemID string) (*dto.ItemResponse, error) {
	item, err := s.findItem(itemID)
	if err != nil {
		return nil, err
	}

	resp := buildItemResponse(item)

	remaining, err := s.availability.RemainingUnitsOn(ctx, item.ID, item.Quantity, s.now())
	if err == nil {
		resp.RemainingToday = &remaining
	} else {
		logger.CtxWarn(ctx, "remaining units lookup failed",
			"item_id", item.ID, "error", err)
	}
	return resp, nil
}

func (s *itemService) List(ctx context.Context, city string, page, pageSize int) (*dto.ItemListResponse, error) {
	offset := (page - 1) * pageSize
	items, total, err := s.itemRepo.ListApproved(city, pageSize, offset)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}

	out := &dto.ItemListResponse{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}
	today := s.now()
	for i := range items {
		resp := buildItemResponse(&items[i])
		// Listing badge: best effort, a miss just hides the badge.
		if remaining, err := s.availability.RemainingUnitsOn(ctx, items[i].ID, items[i].Quantity, today); err == nil {
			resp.RemainingToday = &remaining
		} else {
			logger.CtxWarn(ctx, "remaining units lookup failed",
				"item_id", items[i].ID, "error", err)
		}
		out.Items = append(out.Items, resp)
	}
	return out, nil
}

func (s *itemService) ListMine(ctx context.Context, ownerID string) ([]*dto.ItemResponse, error) {
	items, err := s.itemRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, apperrors.TransientError(err)
	}

	var out []*dto.ItemResponse
	today := s.now()
	for i := range items {
		resp := buildItemResponse(&items[i])
		if unitsOut, err := s.availability.UnitsOut(ctx, items[i].ID, today); err == nil {
			resp.UnitsOut = &unitsOut
		} else {
			logger.CtxWarn(ctx, "units out lookup failed",
				"item_id", items[i].ID, "error", err)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *itemService) SetAvailability(ctx context.Context, ownerID, itemID string, available bool) error {
	err := s.itemRepo.SetAvailability(itemID, ownerID, available)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.TransientError(err)
	}
	return nil
}

func (s *itemService) Moderate(ctx context.Context, itemID string, status models.ModerationStatus) error {
	err := s.itemRepo.UpdateModeration(itemID, status)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.TransientError(err)
	}
	return nil
}

func (s *itemService) findItem(itemID string) (*models.Item, error) {
	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.TransientError(err)
	}
	return item, nil
}

func marshalPhotos(photos []string) datatypes.JSON {
	if len(photos) == 0 {
		return nil
	}
	data, _ := json.Marshal(photos)
	return data
}

func buildItemResponse(item *models.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Description: item.Description,
		Quantity:    item.Quantity,
		PricePerDay: item.PricePerDay,
		DepositFee:  item.DepositFee,
		City:        item.City,
		IsAvailable: item.IsAvailable,
		Moderation:  item.Moderation,
		Photos:      item.Photos,
		CreatedAt:   item.CreatedAt,
	}
}
