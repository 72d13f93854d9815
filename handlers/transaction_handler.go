package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
)

type TransactionHandler struct {
	service *application.TransactionService
	tracer  trace.Tracer
}

func NewTransactionHandler(service *application.TransactionService, tracer trace.Tracer) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *TransactionHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/user/{userId}", handler.GetByUser).Methods("GET")
	router.HandleFunc("/{id}/status", handler.UpdateStatus).Methods("PATCH")
}

func (handler *TransactionHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TransactionHandler.Create")
	defer span.End()

	var transaction domain.Transaction
	if err := json.NewDecoder(req.Body).Decode(&transaction); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(ctx, &transaction)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *TransactionHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TransactionHandler.Get")
	defer span.End()

	transaction, err := handler.service.Get(ctx, mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}
	renderJSON(writer, transaction, http.StatusOK)
}

func (handler *TransactionHandler) GetByUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TransactionHandler.GetByUser")
	defer span.End()

	transactions, err := handler.service.GetByUser(ctx, mux.Vars(req)["userId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, transactions, http.StatusOK)
}

// UpdateStatus records the payment outcome and, on success, runs the
// request-status payment hook. The hook never fails this call.
func (handler *TransactionHandler) UpdateStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TransactionHandler.UpdateStatus")
	defer span.End()

	var body struct {
		Status domain.TransactionStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	id := mux.Vars(req)["id"]
	if err := handler.service.UpdateStatus(ctx, id, body.Status); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if body.Status == domain.TransactionSuccess {
		if transaction, err := handler.service.Get(ctx, id); err == nil {
			handler.service.UpdateRequestStatusOnPayment(ctx, transaction.TargetType, transaction.TargetID)
		}
	}

	writer.WriteHeader(http.StatusOK)
}
