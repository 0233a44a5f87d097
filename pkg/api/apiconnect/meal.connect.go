package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/pkg/api"
)

// MealServiceName is the fully-qualified name of MealService.
const MealServiceName = "macrotrack.v1.MealService"

// Procedure paths of the MealService RPCs.
const (
	MealServiceLogEntryProcedure           = "/macrotrack.v1.MealService/LogEntry"
	MealServiceLogQuickItemProcedure       = "/macrotrack.v1.MealService/LogQuickItem"
	MealServiceAnalyzeAndLogProcedure      = "/macrotrack.v1.MealService/AnalyzeAndLog"
	MealServiceCorrectEntryProcedure       = "/macrotrack.v1.MealService/CorrectEntry"
	MealServiceDeleteEntryProcedure        = "/macrotrack.v1.MealService/DeleteEntry"
	MealServiceGetDayProcedure             = "/macrotrack.v1.MealService/GetDay"
	MealServiceGetRangeProcedure           = "/macrotrack.v1.MealService/GetRange"
	MealServiceCreateGroupProcedure        = "/macrotrack.v1.MealService/CreateGroup"
	MealServiceAddToGroupProcedure         = "/macrotrack.v1.MealService/AddToGroup"
	MealServiceFindGroupByNameProcedure    = "/macrotrack.v1.MealService/FindGroupByName"
	MealServiceRemoveFromGroupProcedure    = "/macrotrack.v1.MealService/RemoveFromGroup"
	MealServiceDissolveGroupProcedure      = "/macrotrack.v1.MealService/DissolveGroup"
	MealServiceDeleteGroupProcedure        = "/macrotrack.v1.MealService/DeleteGroup"
	MealServiceGetGroupingOptionsProcedure = "/macrotrack.v1.MealService/GetGroupingOptions"
)

// MealServiceHandler is implemented by the server.
// MealService logs, corrects and groups meal entries and reports daily progress.
type MealServiceHandler interface {
	LogEntry(context.Context, *connect.Request[api.LogEntryRequest]) (*connect.Response[api.LogEntryResponse], error)
	LogQuickItem(context.Context, *connect.Request[api.LogQuickItemRequest]) (*connect.Response[api.LogQuickItemResponse], error)
	AnalyzeAndLog(context.Context, *connect.Request[api.AnalyzeAndLogRequest]) (*connect.Response[api.AnalyzeAndLogResponse], error)
	CorrectEntry(context.Context, *connect.Request[api.CorrectEntryRequest]) (*connect.Response[api.CorrectEntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error)
	GetDay(context.Context, *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error)
	GetRange(context.Context, *connect.Request[api.GetRangeRequest]) (*connect.Response[api.GetRangeResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	AddToGroup(context.Context, *connect.Request[api.AddToGroupRequest]) (*connect.Response[api.AddToGroupResponse], error)
	FindGroupByName(context.Context, *connect.Request[api.FindGroupByNameRequest]) (*connect.Response[api.FindGroupByNameResponse], error)
	RemoveFromGroup(context.Context, *connect.Request[api.RemoveFromGroupRequest]) (*connect.Response[api.RemoveFromGroupResponse], error)
	DissolveGroup(context.Context, *connect.Request[api.DissolveGroupRequest]) (*connect.Response[api.DissolveGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupingOptions(context.Context, *connect.Request[api.GetGroupingOptionsRequest]) (*connect.Response[api.GetGroupingOptionsResponse], error)
}

// NewMealServiceHandler builds an HTTP handler serving every MealService RPC.
// It returns the path to mount the handler on.
func NewMealServiceHandler(svc MealServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(MealServiceLogEntryProcedure, unaryHandler(MealServiceLogEntryProcedure, svc.LogEntry, opts...))
	mux.Handle(MealServiceLogQuickItemProcedure, unaryHandler(MealServiceLogQuickItemProcedure, svc.LogQuickItem, opts...))
	mux.Handle(MealServiceAnalyzeAndLogProcedure, unaryHandler(MealServiceAnalyzeAndLogProcedure, svc.AnalyzeAndLog, opts...))
	mux.Handle(MealServiceCorrectEntryProcedure, unaryHandler(MealServiceCorrectEntryProcedure, svc.CorrectEntry, opts...))
	mux.Handle(MealServiceDeleteEntryProcedure, unaryHandler(MealServiceDeleteEntryProcedure, svc.DeleteEntry, opts...))
	mux.Handle(MealServiceGetDayProcedure, unaryHandler(MealServiceGetDayProcedure, svc.GetDay, opts...))
	mux.Handle(MealServiceGetRangeProcedure, unaryHandler(MealServiceGetRangeProcedure, svc.GetRange, opts...))
	mux.Handle(MealServiceCreateGroupProcedure, unaryHandler(MealServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(MealServiceAddToGroupProcedure, unaryHandler(MealServiceAddToGroupProcedure, svc.AddToGroup, opts...))
	mux.Handle(MealServiceFindGroupByNameProcedure, unaryHandler(MealServiceFindGroupByNameProcedure, svc.FindGroupByName, opts...))
	mux.Handle(MealServiceRemoveFromGroupProcedure, unaryHandler(MealServiceRemoveFromGroupProcedure, svc.RemoveFromGroup, opts...))
	mux.Handle(MealServiceDissolveGroupProcedure, unaryHandler(MealServiceDissolveGroupProcedure, svc.DissolveGroup, opts...))
	mux.Handle(MealServiceDeleteGroupProcedure, unaryHandler(MealServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(MealServiceGetGroupingOptionsProcedure, unaryHandler(MealServiceGetGroupingOptionsProcedure, svc.GetGroupingOptions, opts...))
	return "/" + MealServiceName + "/", mux
}

// MealServiceClient calls a remote MealService.
type MealServiceClient struct {
	logEntry           *connect.Client[api.LogEntryRequest, api.LogEntryResponse]
	logQuickItem       *connect.Client[api.LogQuickItemRequest, api.LogQuickItemResponse]
	analyzeAndLog      *connect.Client[api.AnalyzeAndLogRequest, api.AnalyzeAndLogResponse]
	correctEntry       *connect.Client[api.CorrectEntryRequest, api.CorrectEntryResponse]
	deleteEntry        *connect.Client[api.DeleteEntryRequest, api.DeleteEntryResponse]
	getDay             *connect.Client[api.GetDayRequest, api.GetDayResponse]
	getRange           *connect.Client[api.GetRangeRequest, api.GetRangeResponse]
	createGroup        *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	addToGroup         *connect.Client[api.AddToGroupRequest, api.AddToGroupResponse]
	findGroupByName    *connect.Client[api.FindGroupByNameRequest, api.FindGroupByNameResponse]
	removeFromGroup    *connect.Client[api.RemoveFromGroupRequest, api.RemoveFromGroupResponse]
	dissolveGroup      *connect.Client[api.DissolveGroupRequest, api.DissolveGroupResponse]
	deleteGroup        *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	getGroupingOptions *connect.Client[api.GetGroupingOptionsRequest, api.GetGroupingOptionsResponse]
}

// NewMealServiceClient creates a client for the service at baseURL (e.g., http://localhost:8080).
func NewMealServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MealServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &MealServiceClient{
		logEntry:           newClient[api.LogEntryRequest, api.LogEntryResponse](httpClient, baseURL+MealServiceLogEntryProcedure, opts...),
		logQuickItem:       newClient[api.LogQuickItemRequest, api.LogQuickItemResponse](httpClient, baseURL+MealServiceLogQuickItemProcedure, opts...),
		analyzeAndLog:      newClient[api.AnalyzeAndLogRequest, api.AnalyzeAndLogResponse](httpClient, baseURL+MealServiceAnalyzeAndLogProcedure, opts...),
		correctEntry:       newClient[api.CorrectEntryRequest, api.CorrectEntryResponse](httpClient, baseURL+MealServiceCorrectEntryProcedure, opts...),
		deleteEntry:        newClient[api.DeleteEntryRequest, api.DeleteEntryResponse](httpClient, baseURL+MealServiceDeleteEntryProcedure, opts...),
		getDay:             newClient[api.GetDayRequest, api.GetDayResponse](httpClient, baseURL+MealServiceGetDayProcedure, opts...),
		getRange:           newClient[api.GetRangeRequest, api.GetRangeResponse](httpClient, baseURL+MealServiceGetRangeProcedure, opts...),
		createGroup:        newClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+MealServiceCreateGroupProcedure, opts...),
		addToGroup:         newClient[api.AddToGroupRequest, api.AddToGroupResponse](httpClient, baseURL+MealServiceAddToGroupProcedure, opts...),
		findGroupByName:    newClient[api.FindGroupByNameRequest, api.FindGroupByNameResponse](httpClient, baseURL+MealServiceFindGroupByNameProcedure, opts...),
		removeFromGroup:    newClient[api.RemoveFromGroupRequest, api.RemoveFromGroupResponse](httpClient, baseURL+MealServiceRemoveFromGroupProcedure, opts...),
		dissolveGroup:      newClient[api.DissolveGroupRequest, api.DissolveGroupResponse](httpClient, baseURL+MealServiceDissolveGroupProcedure, opts...),
		deleteGroup:        newClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+MealServiceDeleteGroupProcedure, opts...),
		getGroupingOptions: newClient[api.GetGroupingOptionsRequest, api.GetGroupingOptionsResponse](httpClient, baseURL+MealServiceGetGroupingOptionsProcedure, opts...),
	}
}

func (c *MealServiceClient) LogEntry(ctx context.Context, req *connect.Request[api.LogEntryRequest]) (*connect.Response[api.LogEntryResponse], error) {
	return c.logEntry.CallUnary(ctx, req)
}

func (c *MealServiceClient) LogQuickItem(ctx context.Context, req *connect.Request[api.LogQuickItemRequest]) (*connect.Response[api.LogQuickItemResponse], error) {
	return c.logQuickItem.CallUnary(ctx, req)
}

func (c *MealServiceClient) AnalyzeAndLog(ctx context.Context, req *connect.Request[api.AnalyzeAndLogRequest]) (*connect.Response[api.AnalyzeAndLogResponse], error) {
	return c.analyzeAndLog.CallUnary(ctx, req)
}

func (c *MealServiceClient) CorrectEntry(ctx context.Context, req *connect.Request[api.CorrectEntryRequest]) (*connect.Response[api.CorrectEntryResponse], error) {
	return c.correctEntry.CallUnary(ctx, req)
}

func (c *MealServiceClient) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	return c.deleteEntry.CallUnary(ctx, req)
}

func (c *MealServiceClient) GetDay(ctx context.Context, req *connect.Request[api.GetDayRequest]) (*connect.Response[api.GetDayResponse], error) {
	return c.getDay.CallUnary(ctx, req)
}

func (c *MealServiceClient) GetRange(ctx context.Context, req *connect.Request[api.GetRangeRequest]) (*connect.Response[api.GetRangeResponse], error) {
	return c.getRange.CallUnary(ctx, req)
}

func (c *MealServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *MealServiceClient) AddToGroup(ctx context.Context, req *connect.Request[api.AddToGroupRequest]) (*connect.Response[api.AddToGroupResponse], error) {
	return c.addToGroup.CallUnary(ctx, req)
}

func (c *MealServiceClient) FindGroupByName(ctx context.Context, req *connect.Request[api.FindGroupByNameRequest]) (*connect.Response[api.FindGroupByNameResponse], error) {
	return c.findGroupByName.CallUnary(ctx, req)
}

func (c *MealServiceClient) RemoveFromGroup(ctx context.Context, req *connect.Request[api.RemoveFromGroupRequest]) (*connect.Response[api.RemoveFromGroupResponse], error) {
	return c.removeFromGroup.CallUnary(ctx, req)
}

func (c *MealServiceClient) DissolveGroup(ctx context.Context, req *connect.Request[api.DissolveGroupRequest]) (*connect.Response[api.DissolveGroupResponse], error) {
	return c.dissolveGroup.CallUnary(ctx, req)
}

func (c *MealServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *MealServiceClient) GetGroupingOptions(ctx context.Context, req *connect.Request[api.GetGroupingOptionsRequest]) (*connect.Response[api.GetGroupingOptionsResponse], error) {
	return c.getGroupingOptions.CallUnary(ctx, req)
}
