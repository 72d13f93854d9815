package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func renderJSON(writer http.ResponseWriter, value interface{}, status int) {
	writer.WriteHeader(status)
	if value == nil {
		return
	}
	if err := json.NewEncoder(writer).Encode(value); err != nil {
		log.Println(err)
	}
}
