package asset

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facilia/facilia/internal/auth"
	requestutil "github.com/facilia/facilia/internal/platform/request"
	"github.com/facilia/facilia/internal/platform/respond"
	"github.com/facilia/facilia/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listAssets)
	router.Get("/{id}", handler.getAsset)
	return router
}

// listAssets handles GET /api/v1/assets?location_id=&page=&limit=
func (handler *Handler) listAssets(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	locationID := requestutil.Query(request, "location_id")

	records, err := handler.service.ListByLocation(request.Context(), auth.UpstreamSession(claims), locationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	page := pagination.Slice(records, params)

	respond.Paginated(writer, page, pagination.NewMeta(params.Page, params.Limit, len(records)))
}

// getAsset handles GET /api/v1/assets/{id}
func (handler *Handler) getAsset(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Get(request.Context(), auth.UpstreamSession(claims), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}
