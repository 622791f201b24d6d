package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/auth"
	"github.com/tarlansoltanov/api.dentalshop.az/bank"
	"github.com/tarlansoltanov/api.dentalshop.az/events"
	"github.com/tarlansoltanov/api.dentalshop.az/models"
	"github.com/tarlansoltanov/api.dentalshop.az/push"
	"github.com/tarlansoltanov/api.dentalshop.az/routes"
	"github.com/tarlansoltanov/api.dentalshop.az/sms"
)

var phonePattern = regexp.MustCompile(`^[0-9]{9}$`)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	db := initDatabase()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Favorite{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderPayment{},
		&models.Promo{},
		&models.PromoUsage{},
		&models.Banner{},
		&models.FreezoneItem{},
		&models.Notification{},
		&models.AppVersionConfig{},
	); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	// Local phone numbers: 9 digits, e.g. 501234567
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("azphone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	bankClient, err := bank.NewClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Bank gateway init failed")
	}

	smsClient, err := sms.NewClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("SMS gateway init failed")
	}

	ctx := context.Background()

	pushClient, err := push.NewClientFromEnv(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Push notifications disabled")
	}

	publisher := events.NewPublisherFromEnv()
	if publisher != nil {
		defer publisher.Close()
	}

	tokens := auth.NewRedisTokenStore(auth.NewRedisClientFromEnv())

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	deps := routes.Deps{
		DB:        db,
		Bank:      bankClient,
		SMS:       smsClient,
		Tokens:    tokens,
		Publisher: publisher,
	}
	if pushClient != nil {
		deps.Pusher = pushClient
	}

	routes.SetupRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("Server starting")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// initDatabase sets up the GORM DB connection.
func initDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}

	return db
}
