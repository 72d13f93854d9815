package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
)

type SupportHandler struct {
	service *application.SupportService
	tracer  trace.Tracer
}

func NewSupportHandler(service *application.SupportService, tracer trace.Tracer) *SupportHandler {
	return &SupportHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *SupportHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/tickets", handler.CreateTicket).Methods("POST")
	router.HandleFunc("/tickets", handler.GetAllTickets).Methods("GET")
	router.HandleFunc("/tickets/{id}", handler.GetTicket).Methods("GET")
	router.HandleFunc("/tickets/{id}", handler.DeleteTicket).Methods("DELETE")
	router.HandleFunc("/tickets/{id}/close", handler.CloseTicket).Methods("PATCH")
	router.HandleFunc("/tickets/{id}/replies", handler.Reply).Methods("POST")
	router.HandleFunc("/tickets/{id}/replies", handler.GetReplies).Methods("GET")
	router.HandleFunc("/tickets/user/{userId}", handler.GetTicketsByUser).Methods("GET")
	router.HandleFunc("/chats/user/{userId}", handler.GetChats).Methods("GET")
	router.HandleFunc("/chats/{chatId}/messages", handler.SendChatMessage).Methods("POST")
	router.HandleFunc("/chats/{chatId}/messages", handler.GetChatMessages).Methods("GET")
}

func (handler *SupportHandler) CreateTicket(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.CreateTicket")
	defer span.End()

	var ticket domain.SupportTicket
	if err := json.NewDecoder(req.Body).Decode(&ticket); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreateTicket(ctx, &ticket)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *SupportHandler) GetAllTickets(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetAllTickets")
	defer span.End()

	tickets, err := handler.service.GetAllTickets(ctx)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, tickets, http.StatusOK)
}

func (handler *SupportHandler) GetTicket(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetTicket")
	defer span.End()

	ticket, err := handler.service.GetTicket(ctx, mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}
	renderJSON(writer, ticket, http.StatusOK)
}

func (handler *SupportHandler) GetTicketsByUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetTicketsByUser")
	defer span.End()

	tickets, err := handler.service.GetTicketsByUser(ctx, mux.Vars(req)["userId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, tickets, http.StatusOK)
}

func (handler *SupportHandler) CloseTicket(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.CloseTicket")
	defer span.End()

	if err := handler.service.CloseTicket(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (handler *SupportHandler) DeleteTicket(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.DeleteTicket")
	defer span.End()

	if err := handler.service.DeleteTicket(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

func (handler *SupportHandler) Reply(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.Reply")
	defer span.End()

	var reply domain.TicketReply
	if err := json.NewDecoder(req.Body).Decode(&reply); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	reply.TicketID = mux.Vars(req)["id"]

	created, err := handler.service.Reply(ctx, &reply)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *SupportHandler) GetReplies(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetReplies")
	defer span.End()

	replies, err := handler.service.GetReplies(ctx, mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, replies, http.StatusOK)
}

func (handler *SupportHandler) GetChats(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetChats")
	defer span.End()

	chats, err := handler.service.GetChats(ctx, mux.Vars(req)["userId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, chats, http.StatusOK)
}

func (handler *SupportHandler) SendChatMessage(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.SendChatMessage")
	defer span.End()

	var message domain.ChatMessage
	if err := json.NewDecoder(req.Body).Decode(&message); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	message.ChatID = mux.Vars(req)["chatId"]

	created, err := handler.service.SendChatMessage(ctx, &message)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *SupportHandler) GetChatMessages(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetChatMessages")
	defer span.End()

	messages, err := handler.service.GetChatMessages(ctx, mux.Vars(req)["chatId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, messages, http.StatusOK)
}
