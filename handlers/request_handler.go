package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
)

type RequestHandler struct {
	service *application.RequestService
	tracer  trace.Tracer
}

func NewRequestHandler(service *application.RequestService, tracer trace.Tracer) *RequestHandler {
	return &RequestHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *RequestHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/user/{type}/{userId}", handler.GetByUser).Methods("GET")
	router.HandleFunc("/provider/{type}/{providerId}", handler.GetByProvider).Methods("GET")
	router.HandleFunc("/{id}/status", handler.UpdateStatus).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *RequestHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RequestHandler.Create")
	defer span.End()

	var request domain.Request
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		log.Println(err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(ctx, &request)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *RequestHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RequestHandler.Get")
	defer span.End()

	request, err := handler.service.Get(ctx, mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}
	renderJSON(writer, request, http.StatusOK)
}

func (handler *RequestHandler) GetByUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RequestHandler.GetByUser")
	defer span.End()

	vars := mux.Vars(req)
	requests, err := handler.service.GetByUser(ctx, domain.RequestType(vars["type"]), vars["userId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, requests, http.StatusOK)
}

func (handler *RequestHandler) GetByProvider(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RequestHandler.GetByProvider")
	defer span.End()

	vars := mux.Vars(req)
	requests, err := handler.service.GetByProvider(ctx, domain.RequestType(vars["type"]), vars["providerId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, requests, http.StatusOK)
}

func (handler *RequestHandler) UpdateStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RequestHandler.UpdateStatus")
	defer span.End()

	var body struct {
		Status domain.RequestStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.service.UpdateStatus(ctx, mux.Vars(req)["id"], body.Status)
	if err != nil {
		if errors.Is(err, application.ErrInvalidTransition) || errors.Is(err, application.ErrTerminalStatus) {
			http.Error(writer, err.Error(), http.StatusConflict)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, updated, http.StatusOK)
}

func (handler *RequestHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RequestHandler.Delete")
	defer span.End()

	if err := handler.service.Delete(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}
