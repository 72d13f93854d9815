package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	application "estately_service/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type NotificationHandler struct {
	service *application.NotificationService
	tracer  trace.Tracer
}

func NewNotificationHandler(service *application.NotificationService, tracer trace.Tracer) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *NotificationHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/user/{userId}", handler.GetByUser).Methods("GET")
	router.HandleFunc("/{id}/read", handler.MarkRead).Methods("PATCH")
	router.HandleFunc("/user/{userId}/live", handler.Live).Methods("GET")
}

func (handler *NotificationHandler) GetByUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.GetByUser")
	defer span.End()

	notifications, err := handler.service.GetByUser(ctx, mux.Vars(req)["userId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, notifications, http.StatusOK)
}

func (handler *NotificationHandler) MarkRead(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.MarkRead")
	defer span.End()

	if err := handler.service.MarkRead(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

// Live upgrades to a websocket and pushes every notification inserted
// for the user until the client goes away. This is the live listener
// the dashboards subscribe to instead of polling.
func (handler *NotificationHandler) Live(writer http.ResponseWriter, req *http.Request) {
	userID := mux.Vars(req)["userId"]

	conn, err := upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	ctx := req.Context()
	feed, err := handler.service.Watch(ctx, userID)
	if err != nil {
		log.Printf("notification watch failed for %s: %v", userID, err)
		return
	}

	for {
		select {
		case notification, ok := <-feed:
			if !ok {
				return
			}
			if err := conn.WriteJSON(notification); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
