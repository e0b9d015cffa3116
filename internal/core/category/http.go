package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facilia/facilia/internal/auth"
	requestutil "github.com/facilia/facilia/internal/platform/request"
	"github.com/facilia/facilia/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listCategories)
	return router
}

// listCategories handles GET /api/v1/issue-categories
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.service.Taxonomy(request.Context(), auth.UpstreamSession(claims))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, records)
}
