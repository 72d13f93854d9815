package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"gopkg.in/natefinch/lumberjack.v2"

	"estately_service/casbinAuthorization"
	"estately_service/handlers"
	application "estately_service/service"
	"estately_service/startup/config"
	"estately_service/storage"
	"estately_service/store"

	"github.com/casbin/casbin"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/estately.log"
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["id"] = generateUniqueID()

	msg := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Data["id"],
		entry.Message,
	)

	return []byte(msg), nil
}

func generateUniqueID() string {
	return fmt.Sprintf("ID-%d", time.Now().UnixNano())
}

func initLogger() {
	Logger.SetOutput(&lumberjack.Logger{
		Filename:   LogFilePath,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     28,
	})

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.EstatelyDB, server.config.EstatelyDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {

		}
	}(mongoClient, context.Background())

	redisClient, err := store.GetRedisClient(server.config.RedisHost, server.config.RedisPort)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("estately_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	fileStorage, err := storage.New(Logger, tracer)
	if err != nil {
		log.Fatal(err)
	}

	userStore := store.NewUserMongoDBStore(mongoClient, tracer)
	providerStore := store.NewProviderMongoDBStore(mongoClient, tracer)
	propertyStore := store.NewPropertyMongoDBStore(mongoClient, tracer)
	requestStore := store.NewRequestMongoDBStore(mongoClient, tracer)
	listingStore := store.NewListingMongoDBStore(mongoClient, tracer)
	offerStore := store.NewOfferMongoDBStore(mongoClient, tracer)
	transactionStore := store.NewTransactionMongoDBStore(mongoClient, tracer)
	reviewStore := store.NewReviewMongoDBStore(mongoClient, tracer)
	notificationStore := store.NewNotificationMongoDBStore(mongoClient, tracer)
	deadLetterStore := store.NewDeadLetterMongoDBStore(mongoClient, tracer)
	supportStore := store.NewSupportMongoDBStore(mongoClient, tracer)
	chatStore := store.NewChatMongoDBStore(mongoClient, tracer)
	nameCache := store.NewNameRedisCache(redisClient, tracer)

	mailer := application.NewSMTPMailer()

	notificationService := application.NewNotificationService(notificationStore, userStore, providerStore,
		deadLetterStore, nameCache, mailer, Logger, tracer)
	userService := application.NewUserService(userStore, nameCache, Logger, tracer)
	propertyService := application.NewPropertyService(propertyStore, Logger, tracer)
	requestService := application.NewRequestService(requestStore, providerStore, chatStore,
		notificationService, Logger, tracer)
	marketplaceService := application.NewMarketplaceService(listingStore, offerStore, fileStorage,
		notificationService, Logger, tracer)
	transactionService := application.NewTransactionService(transactionStore, requestStore,
		notificationService, Logger, tracer)
	reviewService := application.NewReviewService(reviewStore, Logger, tracer)
	supportService := application.NewSupportService(supportStore, chatStore,
		notificationService, Logger, tracer)
	adminService := application.NewAdminService(userStore, providerStore, propertyStore,
		listingStore, notificationService, Logger, tracer)

	userHandler := handlers.NewUserHandler(userService, tracer)
	propertyHandler := handlers.NewPropertyHandler(propertyService, tracer)
	requestHandler := handlers.NewRequestHandler(requestService, tracer)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService, tracer)
	transactionHandler := handlers.NewTransactionHandler(transactionService, tracer)
	reviewHandler := handlers.NewReviewHandler(reviewService, tracer)
	notificationHandler := handlers.NewNotificationHandler(notificationService, tracer)
	supportHandler := handlers.NewSupportHandler(supportService, tracer)
	adminHandler := handlers.NewAdminHandler(adminService, notificationService, tracer)

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)

	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}
	router.Use(casbinAuthorization.CasbinMiddleware(enforcer))

	userHandler.Init(router.PathPrefix("/users").Subrouter())
	propertyHandler.Init(router.PathPrefix("/properties").Subrouter())
	requestHandler.Init(router.PathPrefix("/requests").Subrouter())
	marketplaceHandler.Init(router.PathPrefix("/marketplace").Subrouter())
	transactionHandler.Init(router.PathPrefix("/transactions").Subrouter())
	reviewHandler.Init(router.PathPrefix("/reviews").Subrouter())
	notificationHandler.Init(router.PathPrefix("/notifications").Subrouter())
	supportHandler.Init(router.PathPrefix("/support").Subrouter())
	adminHandler.Init(router.PathPrefix("/admin").Subrouter())

	cors := gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: cors(router),
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	shutdownCtx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("estately_service"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
