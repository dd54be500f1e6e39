package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventhub/pkg/metrics"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	eventHandler *EventHandler,
	cateringHandler *CateringHandler,
	taskHandler *TaskHandler,
	actionHandler *ActionHandler,
	reminderHandler *ReminderHandler,
	yearHandler *YearHandler,
	expenseHandler *ExpenseHandler,
	checklistHandler *ChecklistHandler,
	userHandler *UserHandler,
	emailLogHandler *EmailLogHandler,
	jwtSecret string,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(metricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Hit from email clients, so no session is required. The token IS
	// the credential.
	r.GET("/api/actions", actionHandler.Resolve)

	// Protected
	auth := r.Group("/api")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/events", eventHandler.List)
		auth.POST("/events", eventHandler.Create)
		auth.GET("/events/:id", eventHandler.Get)
		auth.PATCH("/events/:id", eventHandler.Update)
		auth.DELETE("/events/:id", eventHandler.Delete)
		auth.POST("/events/:id/status", eventHandler.SetStatus)
		auth.POST("/events/:id/retrospective", eventHandler.Retrospective)
		auth.POST("/events/:id/archive", eventHandler.Archive)
		auth.GET("/events/:id/emails", emailLogHandler.History)

		auth.PATCH("/events/:id/catering", cateringHandler.UpdateDetails)
		auth.POST("/events/:id/catering/submit", cateringHandler.Submit)
		auth.POST("/events/:id/catering/decide", cateringHandler.Decide)
		auth.POST("/events/:id/catering/request-payment", cateringHandler.RequestPayment)
		auth.POST("/events/:id/catering/mark-paid", cateringHandler.MarkPaid)

		auth.POST("/events/:id/tasks/assign", taskHandler.Assign)
		auth.POST("/events/:id/tasks/accept", taskHandler.Accept)
		auth.PUT("/events/:id/room", taskHandler.UpdateRoom)
		auth.PUT("/events/:id/flyer", taskHandler.UpdateFlyer)

		auth.POST("/events/:id/expenses", expenseHandler.Create)
		auth.GET("/events/:id/expenses", expenseHandler.List)
		auth.POST("/expenses/:id/toggle-paid", expenseHandler.TogglePaid)
		auth.DELETE("/expenses/:id", expenseHandler.Delete)

		auth.GET("/events/:id/checklist", checklistHandler.List)
		auth.POST("/events/:id/checklist", checklistHandler.Add)
		auth.POST("/checklist/:id/toggle", checklistHandler.Toggle)
		auth.DELETE("/checklist/:id", checklistHandler.Delete)

		auth.GET("/years", yearHandler.List)
		auth.POST("/years", yearHandler.Create)
		auth.PATCH("/years/:id", yearHandler.UpdateSettings)
		auth.POST("/years/:id/switch", yearHandler.Switch)

		auth.GET("/users", userHandler.List)
		auth.DELETE("/users/:id", userHandler.Delete)

		// GET so a plain cron curl can hit it. Idempotent per the
		// reminder_sent_at gate.
		auth.GET("/reminders/sweep", reminderHandler.Sweep)
	}

	return &Router{Engine: r}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
