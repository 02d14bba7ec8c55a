// Package api exposes the REST surface: auth, products, customers, sales and
// dashboard analytics, all JSON over gin.
package api

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/safar/medshop/internal/auth"
	"github.com/safar/medshop/internal/guest"
	"github.com/safar/medshop/internal/mail"
	"github.com/safar/medshop/internal/receipt"
)

type API struct {
	db       *sql.DB
	tokens   *auth.TokenIssuer
	mailer   mail.Sender
	sweeper  *guest.Sweeper
	receipts receipt.Renderer
	otpTTL   time.Duration
	log      *logrus.Entry
}

func New(db *sql.DB, tokens *auth.TokenIssuer, mailer mail.Sender, sweeper *guest.Sweeper, receipts receipt.Renderer, otpTTL time.Duration, log *logrus.Entry) *API {
	return &API{
		db:       db,
		tokens:   tokens,
		mailer:   mailer,
		sweeper:  sweeper,
		receipts: receipts,
		otpTTL:   otpTTL,
		log:      log,
	}
}

// Router builds the gin engine with all routes mounted.
func (a *API) Router(corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS(corsOrigin))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Retail Medicine Shop API is running...")
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", a.signup)
		authGroup.POST("/guest-signup", a.guestSignup)
		authGroup.POST("/verify-otp", a.verifyOTP)
		authGroup.POST("/login", a.login)

		authed := authGroup.Group("")
		authed.Use(a.RequireAuth())
		authed.GET("/check", a.checkAuth)
		authed.POST("/guest-cleanup", a.guestCleanup)
	}

	protected := r.Group("/api")
	protected.Use(a.RequireAuth())
	{
		protected.POST("/products", a.createProduct)
		protected.GET("/products", a.listProducts)
		protected.GET("/products/low-stock", a.listLowStockProducts)
		protected.GET("/products/:id", a.getProduct)
		protected.PUT("/products/:id", a.updateProduct)
		protected.DELETE("/products/:id", a.deleteProduct)

		protected.GET("/customers", a.listCustomers)
		protected.POST("/customers", a.upsertCustomer)
		protected.GET("/customers/:customerId/orders", a.customerOrderHistory)

		protected.POST("/sales", a.createSale)
		protected.GET("/sales", a.listSales)
		protected.GET("/sales/:id/receipt", a.saleReceipt)

		protected.GET("/dashboard/analytics", a.dashboardAnalytics)
		protected.GET("/dashboard/recent-sales", a.recentSales)
		protected.GET("/dashboard/sales-summary", a.salesSummary)
	}

	return r
}
