package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
	"estately_service/store"
)

type ReviewHandler struct {
	service *application.ReviewService
	tracer  trace.Tracer
}

func NewReviewHandler(service *application.ReviewService, tracer trace.Tracer) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *ReviewHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/target/{targetType}/{targetId}", handler.GetByTarget).Methods("GET")
	router.HandleFunc("/target/{targetType}/{targetId}/summary", handler.Summary).Methods("GET")
	router.HandleFunc("/author/{authorId}", handler.GetByAuthor).Methods("GET")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *ReviewHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Create")
	defer span.End()

	var review domain.Review
	if err := json.NewDecoder(req.Body).Decode(&review); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(ctx, &review)
	if err != nil {
		if err == store.ErrReviewExists {
			http.Error(writer, err.Error(), http.StatusConflict)
			return
		}
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *ReviewHandler) GetByTarget(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.GetByTarget")
	defer span.End()

	vars := mux.Vars(req)
	reviews, err := handler.service.GetByTarget(ctx, vars["targetType"], vars["targetId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, reviews, http.StatusOK)
}

func (handler *ReviewHandler) Summary(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Summary")
	defer span.End()

	vars := mux.Vars(req)
	summary, err := handler.service.Summary(ctx, vars["targetType"], vars["targetId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, summary, http.StatusOK)
}

func (handler *ReviewHandler) GetByAuthor(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.GetByAuthor")
	defer span.End()

	reviews, err := handler.service.GetByAuthor(ctx, mux.Vars(req)["authorId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, reviews, http.StatusOK)
}

func (handler *ReviewHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Delete")
	defer span.End()

	if err := handler.service.Delete(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}
