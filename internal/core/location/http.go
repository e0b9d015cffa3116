package location

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
	router.Get("/", handler.listLocations)
	return router
}

// listLocations handles GET /api/v1/locations?q=
//
// It returns the flattened, depth-annotated location list, optionally
// filtered by the free-text query the user typed into the picker.
func (handler *Handler) listLocations(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := requestutil.Query(request, "q")

	flat, err := handler.service.Search(request.Context(), auth.UpstreamSession(claims), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, flat)
}
