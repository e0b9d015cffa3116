package servicerequest

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
	router.Get("/{id}", handler.getServiceRequest)
	return router
}

// getServiceRequest handles GET /api/v1/service-requests/{id}
func (handler *Handler) getServiceRequest(writer http.ResponseWriter, request *http.Request) {
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
