// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package wizard

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/facilia/facilia/internal/auth"
	"github.com/facilia/facilia/internal/cafm"
	requestutil "github.com/facilia/facilia/internal/platform/request"
	"github.com/facilia/facilia/internal/platform/respond"
)

// Handler implements the wizard HTTP surface.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the wizard's transition operations.
//
// # Endpoints
//   - POST   /                      : Begin a draft (optional location/asset seed).
//   - GET    /{id}                  : Current draft state.
//   - DELETE /{id}                  : Discard the draft.
//   - PUT    /{id}/location         : Select a location.
//   - PUT    /{id}/asset            : Select an asset, or explicitly none.
//   - PUT    /{id}/category         : Select parent + category, advancing to details.
//   - PUT    /{id}/description      : Set the free-text note.
//   - POST   /{id}/advance          : Move forward one step.
//   - POST   /{id}/back             : Move back one step.
//   - POST   /{id}/images           : Attach an image (multipart, field "image").
//   - GET    /{id}/images/{imageID} : Preview a held image.
//   - DELETE /{id}/images/{imageID} : Remove a held image.
//   - POST   /{id}/submit           : The single atomic submission.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.begin)
	router.Get("/{id}", handler.get)
	router.Delete("/{id}", handler.discard)

	router.Put("/{id}/location", handler.selectLocation)
	router.Put("/{id}/asset", handler.selectAsset)
	router.Put("/{id}/category", handler.selectCategory)
	router.Put("/{id}/description", handler.setDescription)

	router.Post("/{id}/advance", handler.advance)
	router.Post("/{id}/back", handler.back)

	router.Post("/{id}/images", handler.addImage)
	router.Get("/{id}/images/{imageID}", handler.previewImage)
	router.Delete("/{id}/images/{imageID}", handler.removeImage)

	router.Post("/{id}/submit", handler.submit)

	return router
}

// # Request Payloads

type beginRequest struct {
	LocationID string `json:"location_id"`
	AssetID    string `json:"asset_id"`
}

type selectLocationRequest struct {
	LocationID string `json:"location_id"`
}

type selectAssetRequest struct {
	AssetID string `json:"asset_id"`
	None    bool   `json:"none"`
}

type selectCategoryRequest struct {
	ParentID   string `json:"parent_id"`
	CategoryID string `json:"category_id"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

// # Handlers

// caller unpacks the authenticated identity for every wizard operation.
func caller(request *http.Request) (cafm.Session, string, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return cafm.Session{}, "", err
	}
	return auth.UpstreamSession(claims), claims.UserID, nil
}

// begin handles POST /api/v1/wizard
func (handler *Handler) begin(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload beginRequest
	if request.ContentLength > 0 {
		if err := requestutil.DecodeJSON(request, &payload); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	result, err := handler.service.Begin(request.Context(), session, userID, BeginInput{
		LocationID: payload.LocationID,
		AssetID:    payload.AssetID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

// get handles GET /api/v1/wizard/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Get(session, userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// discard handles DELETE /api/v1/wizard/{id}
func (handler *Handler) discard(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Discard(session, userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// selectLocation handles PUT /api/v1/wizard/{id}/location
func (handler *Handler) selectLocation(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload selectLocationRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SelectLocation(session, userID, requestutil.ID(request, "id"), payload.LocationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// selectAsset handles PUT /api/v1/wizard/{id}/asset
//
// The body carries either a concrete asset_id or none=true for the explicit
// "no specific asset" answer.
func (handler *Handler) selectAsset(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload selectAssetRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draftID := requestutil.ID(request, "id")

	var view *DraftView
	if payload.None {
		view, err = handler.service.SkipAsset(session, userID, draftID)
	} else {
		view, err = handler.service.SelectAsset(request.Context(), session, userID, draftID, payload.AssetID)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// selectCategory handles PUT /api/v1/wizard/{id}/category
func (handler *Handler) selectCategory(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload selectCategoryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SelectCategory(request.Context(), session, userID,
		requestutil.ID(request, "id"), payload.ParentID, payload.CategoryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// setDescription handles PUT /api/v1/wizard/{id}/description
func (handler *Handler) setDescription(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload descriptionRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SetDescription(session, userID, requestutil.ID(request, "id"), payload.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// advance handles POST /api/v1/wizard/{id}/advance
func (handler *Handler) advance(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Advance(session, userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// back handles POST /api/v1/wizard/{id}/back
func (handler *Handler) back(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Back(session, userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// addImage handles POST /api/v1/wizard/{id}/images
func (handler *Handler) addImage(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, header, err := requestutil.File(request, "image")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	view, err := handler.service.AddImage(session, userID, requestutil.ID(request, "id"),
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// previewImage handles GET /api/v1/wizard/{id}/images/{imageID}
func (handler *Handler) previewImage(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, attachment, err := handler.service.OpenImage(session, userID,
		requestutil.ID(request, "id"), requestutil.ID(request, "imageID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	writer.Header().Set("Content-Type", attachment.ContentType)
	writer.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	writer.Header().Set("Cache-Control", "private, max-age=0")
	_, _ = io.Copy(writer, file)
}

// removeImage handles DELETE /api/v1/wizard/{id}/images/{imageID}
func (handler *Handler) removeImage(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.RemoveImage(session, userID,
		requestutil.ID(request, "id"), requestutil.ID(request, "imageID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// submit handles POST /api/v1/wizard/{id}/submit
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	session, userID, err := caller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Submit(request.Context(), session, userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}
