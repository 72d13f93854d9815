package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
)

type PropertyHandler struct {
	service *application.PropertyService
	tracer  trace.Tracer
}

func NewPropertyHandler(service *application.PropertyService, tracer trace.Tracer) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *PropertyHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/", handler.GetPublished).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/owner/{ownerId}", handler.GetByOwner).Methods("GET")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *PropertyHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Create")
	defer span.End()

	var property domain.Property
	if err := json.NewDecoder(req.Body).Decode(&property); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(ctx, &property)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *PropertyHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Get")
	defer span.End()

	property, err := handler.service.Get(ctx, mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}
	renderJSON(writer, property, http.StatusOK)
}

func (handler *PropertyHandler) GetByOwner(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.GetByOwner")
	defer span.End()

	properties, err := handler.service.GetByOwner(ctx, mux.Vars(req)["ownerId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, properties, http.StatusOK)
}

func (handler *PropertyHandler) GetPublished(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.GetPublished")
	defer span.End()

	properties, err := handler.service.GetPublished(ctx)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, properties, http.StatusOK)
}

func (handler *PropertyHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PropertyHandler.Delete")
	defer span.End()

	if err := handler.service.Delete(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}
