package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/seller-portal-api/internal/application/catalog"
	"github.com/seller-portal-api/internal/application/image"
	"github.com/seller-portal-api/internal/application/verification"
	"github.com/seller-portal-api/internal/config"
	"github.com/seller-portal-api/internal/infrastructure/dynamo"
	s3infra "github.com/seller-portal-api/internal/infrastructure/s3"
	"github.com/seller-portal-api/internal/infrastructure/smtp"
	"github.com/seller-portal-api/internal/transport/http/handler"
	appmiddleware "github.com/seller-portal-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	SellerRepo *dynamo.SellerRepo
	S3Store    *s3infra.Store
	Mailer     smtp.Mailer
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, on the endpoints that send mail.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	verificationSvc := verification.NewService(deps.SellerRepo, deps.Mailer, cfg.VerifyCodeTTL, cfg.ResendCooldown)
	catalogSvc := catalog.NewService(deps.SellerRepo, deps.S3Store)
	imageSvc := image.NewService(deps.S3Store)

	healthH := handler.NewHealthHandler()
	sellerH := handler.NewSellerHandler(verificationSvc)
	productH := handler.NewProductHandler(catalogSvc)
	imageH := handler.NewImageHandler(imageSvc)

	r.Get("/health-check/{action}", healthH.Ping)

	r.With(sensitiveRL.Limit).Post("/user", sellerH.Register)
	r.Get("/verify", sellerH.VerifyCheck)
	r.Post("/verifyuser", sellerH.VerifyUser)
	r.With(sensitiveRL.Limit).Post("/resendotp", sellerH.ResendOTP)

	r.Post("/product", productH.Add)
	r.Get("/products", productH.List)
	r.Put("/edit", productH.Edit)
	r.Delete("/delete", productH.Delete)
	r.Patch("/updateQuantity", productH.AdjustQuantity)

	r.Post("/upload-product-image", imageH.Upload)

	return r
}
