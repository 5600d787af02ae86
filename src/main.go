package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"bts/src/config"
	"bts/src/db"
	"bts/src/lib"
	"bts/src/middlewares"
	"bts/src/services"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api"
)

var (
	identitySvc *services.IdentityService
	orderSvc    *services.OrderService
	paymentSvc  *services.PaymentService
	ticketSvc   *services.TicketService
)

// timerange validates that the tagged field is a timestamp strictly after
// the field named in the parameter.
var timerange validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return datetime.After(fielddatetime)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func wireServices() {
	identitySvc = services.NewIdentityService(&db.UserStore{}, []byte(os.Getenv("JWT_SECRET")))
	orderSvc = services.NewOrderService(&db.OrderStore{})
	paymentSvc = services.NewPaymentService(&db.PaymentStore{})
	ticketSvc = services.NewTicketService(&db.TicketStore{})

	if os.Getenv("KAFKA_BROKER") != "" {
		publish := func(topic string, payload map[string]any) error {
			return lib.KafkaProduceMessage("bts-api", topic, payload)
		}
		orderSvc.Publish = publish
		paymentSvc.Publish = publish
	}
	if os.Getenv("SMTP_HOST") != "" {
		paymentSvc.Mail = lib.SendMail
	}
	if os.Getenv("STRIPE_SECRET_KEY") != "" {
		paymentSvc.CheckoutURL = lib.CreateCheckoutURL
	}
}

func registerRoutes(router *gin.Engine) {
	public := router.Group(apiPrefix)
	authGuestHandlers(public)
	paymentCallbackRoute(public)
	eventHandlers(public)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	profileHandlers(authorized)
	bookingHandlers(authorized)
	paymentHandlers(authorized)
	ticketHandlers(authorized)
	notificationHandlers(authorized)

	admin := router.Group(path.Join(apiPrefix, "admin"))
	admin.Use(middlewares.AuthMiddleware, middlewares.RequireRole("Admin"))
	adminHandlers(admin)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	_ = os.MkdirAll(path.Join(cwd, "logs"), 0755)
	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Error running migrations: %s\n", err.Error())
	}
	wireServices()

	router := setupRouter()

	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", "X-Callback-Secret")
		cc.AllowOrigins = []string{os.Getenv("APP_HOST")}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("timerange", timerange)
	}

	registerRoutes(router)

	router.Run()
}
