package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/pkg/api"
)

// ProfileServiceName is the fully-qualified name of ProfileService.
const ProfileServiceName = "macrotrack.v1.ProfileService"

// Procedure paths of the ProfileService RPCs.
const (
	ProfileServiceSaveProfileProcedure = "/macrotrack.v1.ProfileService/SaveProfile"
	ProfileServiceGetProfileProcedure  = "/macrotrack.v1.ProfileService/GetProfile"
)

// ProfileServiceHandler is implemented by the server.
// ProfileService stores the profile nutrition targets are computed from.
type ProfileServiceHandler interface {
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
}

// NewProfileServiceHandler builds an HTTP handler serving every ProfileService RPC.
// It returns the path to mount the handler on.
func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ProfileServiceSaveProfileProcedure, unaryHandler(ProfileServiceSaveProfileProcedure, svc.SaveProfile, opts...))
	mux.Handle(ProfileServiceGetProfileProcedure, unaryHandler(ProfileServiceGetProfileProcedure, svc.GetProfile, opts...))
	return "/" + ProfileServiceName + "/", mux
}

// ProfileServiceClient calls a remote ProfileService.
type ProfileServiceClient struct {
	saveProfile *connect.Client[api.SaveProfileRequest, api.SaveProfileResponse]
	getProfile  *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
}

// NewProfileServiceClient creates a client for the service at baseURL (e.g., http://localhost:8080).
func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProfileServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &ProfileServiceClient{
		saveProfile: newClient[api.SaveProfileRequest, api.SaveProfileResponse](httpClient, baseURL+ProfileServiceSaveProfileProcedure, opts...),
		getProfile:  newClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+ProfileServiceGetProfileProcedure, opts...),
	}
}

func (c *ProfileServiceClient) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	return c.saveProfile.CallUnary(ctx, req)
}

func (c *ProfileServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}
