// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facilia/facilia/internal/platform/constants"
	requestutil "github.com/facilia/facilia/internal/platform/request"
	"github.com/facilia/facilia/internal/platform/respond"
)

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login : Verifies credentials upstream and returns a gateway JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/login", handler.login)
	return router
}

type loginRequest struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
login handles the creation of a new mobile session.

POST /api/v1/auth/login

The tenant may arrive in the body or in the X-Tenant-ID header (the header
wins when both are present, matching how the PWA shell injects it).
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tenant := payload.Tenant
	if header := request.Header.Get(constants.HeaderTenant); header != "" {
		tenant = header
	}

	result, err := handler.service.Login(request.Context(), tenant, payload.Username, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
