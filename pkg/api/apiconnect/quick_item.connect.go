package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/pkg/api"
)

// QuickItemServiceName is the fully-qualified name of QuickItemService.
const QuickItemServiceName = "macrotrack.v1.QuickItemService"

// Procedure paths of the QuickItemService RPCs.
const (
	QuickItemServiceCreateQuickItemProcedure = "/macrotrack.v1.QuickItemService/CreateQuickItem"
	QuickItemServiceGetQuickItemProcedure    = "/macrotrack.v1.QuickItemService/GetQuickItem"
	QuickItemServiceListQuickItemsProcedure  = "/macrotrack.v1.QuickItemService/ListQuickItems"
	QuickItemServiceUpdateQuickItemProcedure = "/macrotrack.v1.QuickItemService/UpdateQuickItem"
	QuickItemServiceDeleteQuickItemProcedure = "/macrotrack.v1.QuickItemService/DeleteQuickItem"
)

// QuickItemServiceHandler is implemented by the server.
// QuickItemService manages saved quick-add templates.
type QuickItemServiceHandler interface {
	CreateQuickItem(context.Context, *connect.Request[api.CreateQuickItemRequest]) (*connect.Response[api.CreateQuickItemResponse], error)
	GetQuickItem(context.Context, *connect.Request[api.GetQuickItemRequest]) (*connect.Response[api.GetQuickItemResponse], error)
	ListQuickItems(context.Context, *connect.Request[api.ListQuickItemsRequest]) (*connect.Response[api.ListQuickItemsResponse], error)
	UpdateQuickItem(context.Context, *connect.Request[api.UpdateQuickItemRequest]) (*connect.Response[api.UpdateQuickItemResponse], error)
	DeleteQuickItem(context.Context, *connect.Request[api.DeleteQuickItemRequest]) (*connect.Response[api.DeleteQuickItemResponse], error)
}

// NewQuickItemServiceHandler builds an HTTP handler serving every QuickItemService RPC.
// It returns the path to mount the handler on.
func NewQuickItemServiceHandler(svc QuickItemServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(QuickItemServiceCreateQuickItemProcedure, unaryHandler(QuickItemServiceCreateQuickItemProcedure, svc.CreateQuickItem, opts...))
	mux.Handle(QuickItemServiceGetQuickItemProcedure, unaryHandler(QuickItemServiceGetQuickItemProcedure, svc.GetQuickItem, opts...))
	mux.Handle(QuickItemServiceListQuickItemsProcedure, unaryHandler(QuickItemServiceListQuickItemsProcedure, svc.ListQuickItems, opts...))
	mux.Handle(QuickItemServiceUpdateQuickItemProcedure, unaryHandler(QuickItemServiceUpdateQuickItemProcedure, svc.UpdateQuickItem, opts...))
	mux.Handle(QuickItemServiceDeleteQuickItemProcedure, unaryHandler(QuickItemServiceDeleteQuickItemProcedure, svc.DeleteQuickItem, opts...))
	return "/" + QuickItemServiceName + "/", mux
}

// QuickItemServiceClient calls a remote QuickItemService.
type QuickItemServiceClient struct {
	createQuickItem *connect.Client[api.CreateQuickItemRequest, api.CreateQuickItemResponse]
	getQuickItem    *connect.Client[api.GetQuickItemRequest, api.GetQuickItemResponse]
	listQuickItems  *connect.Client[api.ListQuickItemsRequest, api.ListQuickItemsResponse]
	updateQuickItem *connect.Client[api.UpdateQuickItemRequest, api.UpdateQuickItemResponse]
	deleteQuickItem *connect.Client[api.DeleteQuickItemRequest, api.DeleteQuickItemResponse]
}

// NewQuickItemServiceClient creates a client for the service at baseURL (e.g., http://localhost:8080).
func NewQuickItemServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *QuickItemServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &QuickItemServiceClient{
		createQuickItem: newClient[api.CreateQuickItemRequest, api.CreateQuickItemResponse](httpClient, baseURL+QuickItemServiceCreateQuickItemProcedure, opts...),
		getQuickItem:    newClient[api.GetQuickItemRequest, api.GetQuickItemResponse](httpClient, baseURL+QuickItemServiceGetQuickItemProcedure, opts...),
		listQuickItems:  newClient[api.ListQuickItemsRequest, api.ListQuickItemsResponse](httpClient, baseURL+QuickItemServiceListQuickItemsProcedure, opts...),
		updateQuickItem: newClient[api.UpdateQuickItemRequest, api.UpdateQuickItemResponse](httpClient, baseURL+QuickItemServiceUpdateQuickItemProcedure, opts...),
		deleteQuickItem: newClient[api.DeleteQuickItemRequest, api.DeleteQuickItemResponse](httpClient, baseURL+QuickItemServiceDeleteQuickItemProcedure, opts...),
	}
}

func (c *QuickItemServiceClient) CreateQuickItem(ctx context.Context, req *connect.Request[api.CreateQuickItemRequest]) (*connect.Response[api.CreateQuickItemResponse], error) {
	return c.createQuickItem.CallUnary(ctx, req)
}

func (c *QuickItemServiceClient) GetQuickItem(ctx context.Context, req *connect.Request[api.GetQuickItemRequest]) (*connect.Response[api.GetQuickItemResponse], error) {
	return c.getQuickItem.CallUnary(ctx, req)
}

func (c *QuickItemServiceClient) ListQuickItems(ctx context.Context, req *connect.Request[api.ListQuickItemsRequest]) (*connect.Response[api.ListQuickItemsResponse], error) {
	return c.listQuickItems.CallUnary(ctx, req)
}

func (c *QuickItemServiceClient) UpdateQuickItem(ctx context.Context, req *connect.Request[api.UpdateQuickItemRequest]) (*connect.Response[api.UpdateQuickItemResponse], error) {
	return c.updateQuickItem.CallUnary(ctx, req)
}

func (c *QuickItemServiceClient) DeleteQuickItem(ctx context.Context, req *connect.Request[api.DeleteQuickItemRequest]) (*connect.Response[api.DeleteQuickItemResponse], error) {
	return c.deleteQuickItem.CallUnary(ctx, req)
}
