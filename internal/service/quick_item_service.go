package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
	"github.com/mmynk/macrotrack/pkg/api"
	"github.com/mmynk/macrotrack/pkg/api/apiconnect"
)

var _ apiconnect.QuickItemServiceHandler = (*QuickItemService)(nil)

// QuickItemService implements the Connect QuickItemService.
type QuickItemService struct {
	store storage.QuickItemStore
}

// NewQuickItemService creates a new QuickItemService with the given storage backend.
func NewQuickItemService(store storage.QuickItemStore) *QuickItemService {
	return &QuickItemService{store: store}
}

func quickItemFromRequest(op, userID, name, unit string, servingSize float64, macros *api.Macros, imageURL string) (*models.QuickItem, error) {
	item := &models.QuickItem{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Unit:        strings.TrimSpace(unit),
		ServingSize: servingSize,
		Macros:      fromAPIMacros(macros),
		ImageURL:    imageURL,
	}
	if item.Name == "" {
		return nil, errs.Validation(op, "name is required")
	}
	if item.ServingSize < 0 {
		return nil, errs.Validation(op, "serving size must not be negative")
	}
	m := item.Macros
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return nil, errs.Validation(op, "macros must not be negative")
	}
	return item, nil
}

// CreateQuickItem saves a new quick-add template.
func (s *QuickItemService) CreateQuickItem(ctx context.Context, req *connect.Request[api.CreateQuickItemRequest]) (*connect.Response[api.CreateQuickItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateQuickItem request received", "user_id", userID, "name", req.Msg.Name)

	msg := req.Msg
	item, err := quickItemFromRequest("CreateQuickItem", userID, msg.Name, msg.Unit, msg.ServingSize, msg.Macros, msg.ImageUrl)
	if err != nil {
		return nil, connectError(err)
	}

	if err := s.store.CreateQuickItem(ctx, item); err != nil {
		slog.Error("CreateQuickItem failed", "user_id", userID, "error", err)
		return nil, connectError(storage.Classify("CreateQuickItem", err))
	}

	slog.Info("Quick item created", "user_id", userID, "item_id", item.ID)
	return connect.NewResponse(&api.CreateQuickItemResponse{Item: toAPIQuickItem(item)}), nil
}

// GetQuickItem retrieves a quick item by ID.
func (s *QuickItemService) GetQuickItem(ctx context.Context, req *connect.Request[api.GetQuickItemRequest]) (*connect.Response[api.GetQuickItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetQuickItem request received", "user_id", userID, "item_id", req.Msg.ItemId)

	item, err := s.store.GetQuickItem(ctx, userID, req.Msg.ItemId)
	if err != nil {
		slog.Error("GetQuickItem failed", "user_id", userID, "item_id", req.Msg.ItemId, "error", err)
		return nil, connectError(storage.Classify("GetQuickItem", err))
	}

	return connect.NewResponse(&api.GetQuickItemResponse{Item: toAPIQuickItem(item)}), nil
}

// ListQuickItems returns the caller's quick items.
func (s *QuickItemService) ListQuickItems(ctx context.Context, req *connect.Request[api.ListQuickItemsRequest]) (*connect.Response[api.ListQuickItemsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListQuickItems request received", "user_id", userID)

	items, err := s.store.ListQuickItems(ctx, userID)
	if err != nil {
		slog.Error("ListQuickItems failed", "user_id", userID, "error", err)
		return nil, connectError(storage.Classify("ListQuickItems", err))
	}

	out := make([]*api.QuickItem, len(items))
	for i := range items {
		out[i] = toAPIQuickItem(&items[i])
	}

	slog.Info("ListQuickItems successful", "user_id", userID, "count", len(items))
	return connect.NewResponse(&api.ListQuickItemsResponse{Items: out}), nil
}

// UpdateQuickItem overwrites a quick item. Entries already logged from it
// keep their values.
func (s *QuickItemService) UpdateQuickItem(ctx context.Context, req *connect.Request[api.UpdateQuickItemRequest]) (*connect.Response[api.UpdateQuickItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateQuickItem request received", "user_id", userID, "item_id", req.Msg.ItemId)

	msg := req.Msg
	item, err := quickItemFromRequest("UpdateQuickItem", userID, msg.Name, msg.Unit, msg.ServingSize, msg.Macros, msg.ImageUrl)
	if err != nil {
		return nil, connectError(err)
	}
	item.ID = msg.ItemId

	if err := s.store.UpdateQuickItem(ctx, item); err != nil {
		slog.Error("UpdateQuickItem failed", "user_id", userID, "item_id", msg.ItemId, "error", err)
		return nil, connectError(storage.Classify("UpdateQuickItem", err))
	}

	// Fetch updated item to get CreatedAt
	updated, err := s.store.GetQuickItem(ctx, userID, item.ID)
	if err != nil {
		slog.Error("Failed to fetch updated quick item", "item_id", item.ID, "error", err)
		return nil, connectError(storage.Classify("UpdateQuickItem", err))
	}

	slog.Info("Quick item updated", "user_id", userID, "item_id", item.ID)
	return connect.NewResponse(&api.UpdateQuickItemResponse{Item: toAPIQuickItem(updated)}), nil
}

// DeleteQuickItem removes a quick item.
func (s *QuickItemService) DeleteQuickItem(ctx context.Context, req *connect.Request[api.DeleteQuickItemRequest]) (*connect.Response[api.DeleteQuickItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteQuickItem request received", "user_id", userID, "item_id", req.Msg.ItemId)

	if err := s.store.DeleteQuickItem(ctx, userID, req.Msg.ItemId); err != nil {
		slog.Error("DeleteQuickItem failed", "user_id", userID, "item_id", req.Msg.ItemId, "error", err)
		return nil, connectError(storage.Classify("DeleteQuickItem", err))
	}

	slog.Info("Quick item deleted", "user_id", userID, "item_id", req.Msg.ItemId)
	return connect.NewResponse(&api.DeleteQuickItemResponse{}), nil
}
