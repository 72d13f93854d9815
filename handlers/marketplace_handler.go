package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	application "estately_service/service"
)

type MarketplaceHandler struct {
	service *application.MarketplaceService
	tracer  trace.Tracer
}

func NewMarketplaceHandler(service *application.MarketplaceService, tracer trace.Tracer) *MarketplaceHandler {
	return &MarketplaceHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *MarketplaceHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/", handler.GetAll).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PUT")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/{id}/offers", handler.CreateOffer).Methods("POST")
	router.HandleFunc("/{id}/offers", handler.GetOffersByListing).Methods("GET")
	router.HandleFunc("/offers/buyer/{buyerId}", handler.GetOffersByBuyer).Methods("GET")
	router.HandleFunc("/offers/seller/{sellerId}", handler.GetOffersBySeller).Methods("GET")
	router.HandleFunc("/offers/{offerId}/status", handler.UpdateOfferStatus).Methods("PATCH")
}

type createListingRequest struct {
	Listing domain.Listing       `json:"listing"`
	Images  []domain.ImageUpload `json:"images,omitempty"`
}

func (handler *MarketplaceHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.Create")
	defer span.End()

	var body createListingRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(ctx, &body.Listing, body.Images)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *MarketplaceHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.Get")
	defer span.End()

	incrementViews, _ := strconv.ParseBool(req.URL.Query().Get("view"))
	listing, err := handler.service.Get(ctx, mux.Vars(req)["id"], incrementViews)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}
	renderJSON(writer, listing, http.StatusOK)
}

func (handler *MarketplaceHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.GetAll")
	defer span.End()

	query := req.URL.Query()
	filter := domain.ListingFilter{
		Status:   domain.ListingStatus(query.Get("status")),
		Category: query.Get("category"),
		City:     query.Get("city"),
	}
	if minPrice, err := strconv.ParseFloat(query.Get("minPrice"), 64); err == nil {
		filter.MinPrice = minPrice
	}
	if maxPrice, err := strconv.ParseFloat(query.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = maxPrice
	}
	options := domain.ListingOptions{
		OrderBy:    query.Get("orderBy"),
		Descending: query.Get("order") == "desc",
	}

	listings, err := handler.service.GetAll(ctx, filter, options)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, listings, http.StatusOK)
}

func (handler *MarketplaceHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.Update")
	defer span.End()

	var listing domain.Listing
	if err := json.NewDecoder(req.Body).Decode(&listing); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.Update(ctx, &listing); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, &listing, http.StatusOK)
}

func (handler *MarketplaceHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.Delete")
	defer span.End()

	if err := handler.service.Delete(ctx, mux.Vars(req)["id"]); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

func (handler *MarketplaceHandler) CreateOffer(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.CreateOffer")
	defer span.End()

	var offer domain.Offer
	if err := json.NewDecoder(req.Body).Decode(&offer); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	offer.ListingID = mux.Vars(req)["id"]

	created, err := handler.service.CreateOffer(ctx, &offer)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	renderJSON(writer, created, http.StatusCreated)
}

func (handler *MarketplaceHandler) GetOffersByListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.GetOffersByListing")
	defer span.End()

	offers, err := handler.service.GetOffersByListing(ctx, mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, offers, http.StatusOK)
}

func (handler *MarketplaceHandler) GetOffersByBuyer(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.GetOffersByBuyer")
	defer span.End()

	offers, err := handler.service.GetOffersByBuyer(ctx, mux.Vars(req)["buyerId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, offers, http.StatusOK)
}

func (handler *MarketplaceHandler) GetOffersBySeller(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.GetOffersBySeller")
	defer span.End()

	offers, err := handler.service.GetOffersBySeller(ctx, mux.Vars(req)["sellerId"])
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	renderJSON(writer, offers, http.StatusOK)
}

func (handler *MarketplaceHandler) UpdateOfferStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MarketplaceHandler.UpdateOfferStatus")
	defer span.End()

	var body struct {
		Status domain.OfferStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	err := handler.service.UpdateOfferStatus(ctx, mux.Vars(req)["offerId"], body.Status)
	if err != nil {
		if errors.Is(err, application.ErrInvalidOfferStatus) {
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
}
