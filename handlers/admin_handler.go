package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
)

type AdminHandler struct {
	service       *application.AdminService
	notifications *application.NotificationService
	tracer        trace.Tracer
}

func NewAdminHandler(service *application.AdminService, notifications *application.NotificationService, tracer trace.Tracer) *AdminHandler {
	return &AdminHandler{
		service:       service,
		notifications: notifications,
		tracer:        tracer,
	}
}

func (handler *AdminHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/providers", handler.RegisterProvider).Methods("POST")
	router.HandleFunc("/providers/{id}/approve", handler.ApproveProvider).Methods("PATCH")
	router.HandleFunc("/providers/{id}/reject", handler.RejectProvider).Methods("PATCH")
	router.HandleFunc("/users/{id}/suspend", handler.SuspendUser).Methods("PATCH")
	router.HandleFunc("/users/{id}/unsuspend", handler.UnsuspendUser).Methods("PATCH")
	router.HandleFunc("/properties/{id}/status", handler.ModerateProperty).Methods("PATCH")
	router.HandleFunc("/listings/{id}/status", handler.ModerateListing).Methods("PATCH")
	router.HandleFunc("/notifications/bulk", handler.BulkNotify).Methods("POST")
	router.HandleFunc("/dead-letters", handler.GetDeadLetters).Methods("GET")
}

func (handler *AdminHandler) RegisterProvider(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.RegisterProvider")
	defer span.End()

	var provider domain.ServiceProvider
	if err := json.NewDecoder(req.Body).Decode(&provider); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.RegisterProvider(ctx, &provider)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *AdminHandler) ApproveProvider(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.ApproveProvider")
	defer span.End()

	if err := handler.service.ApproveProvider(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (handler *AdminHandler) RejectProvider(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.RejectProvider")
	defer span.End()

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.RejectProvider(ctx, mux.Vars(req)["id"], body.Reason); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (handler *AdminHandler) SuspendUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.SuspendUser")
	defer span.End()

	if err := handler.service.SetUserSuspended(ctx, mux.Vars(req)["id"], true); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (handler *AdminHandler) UnsuspendUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.UnsuspendUser")
	defer span.End()

	if err := handler.service.SetUserSuspended(ctx, mux.Vars(req)["id"], false); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (handler *AdminHandler) ModerateProperty(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.ModerateProperty")
	defer span.End()

	var body struct {
		Status domain.PropertyStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.ModerateProperty(ctx, mux.Vars(req)["id"], body.Status); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (handler *AdminHandler) ModerateListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.ModerateListing")
	defer span.End()

	var body struct {
		Status domain.ListingStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.ModerateListing(ctx, mux.Vars(req)["id"], body.Status); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

// BulkNotify fans a notification out to the resolved audience. The
// admin console sends a loosely shaped payload, so the body is decoded
// into a map first and mapped onto the request afterwards. Audiences
// above the confirmation threshold are rejected with 409 until the
// caller retries with confirmed=true.
func (handler *AdminHandler) BulkNotify(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.BulkNotify")
	defer span.End()

	var payload map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	var bulkRequest domain.BulkNotificationRequest
	if err := mapstructure.Decode(payload, &bulkRequest); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	confirmed := req.URL.Query().Get("confirmed") == "true"
	if value, ok := payload["confirmed"].(bool); ok && value {
		confirmed = true
	}

	result, err := handler.notifications.BulkSend(ctx, &bulkRequest, confirmed, func(progress domain.BulkProgress) {
		log.Printf("Bulk notification progress: %d/%d", progress.Sent, progress.Total)
	})
	if err != nil {
		var confirmation *domain.ConfirmationRequiredError
		if errors.As(err, &confirmation) {
			renderJSON(writer, map[string]interface{}{
				"error":      err.Error(),
				"recipients": confirmation.Recipients,
			}, http.StatusConflict)
			return
		}
		if result != nil && result.Sent > 0 {
			// Partial failure, already written batches stay written.
			renderJSON(writer, map[string]interface{}{
				"error":  err.Error(),
				"result": result,
			}, http.StatusInternalServerError)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, result, http.StatusOK)
}

func (handler *AdminHandler) GetDeadLetters(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.GetDeadLetters")
	defer span.End()

	deadLetters, err := handler.notifications.DeadLetters(ctx)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, deadLetters, http.StatusOK)
}
