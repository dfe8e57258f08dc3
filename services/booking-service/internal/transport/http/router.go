package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires every public and staff route. The API key guard
// applies to public booking endpoints (the hosted-backend convention:
// callers send authorization/apikey headers); staff routes use JWT.
func NewRouter(checkout CheckoutService, reminders ReminderScanner, experiences ExperienceService, vendors VendorService, auth AuthService, apiKey string) *gin.Engine {
	r := gin.Default()
	r.Use(CORS())

	r.GET("/health", HealthHandler)

	ch := NewCheckoutHandler(checkout)
	eh := NewExperienceHandler(experiences)
	vh := NewVendorHandler(vendors)
	ah := NewAuthHandler(auth)
	rh := NewReminderHandler(reminders)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", ah.Login)

		public := v1.Group("")
		public.Use(APIKeyRequired(apiKey))
		{
			public.POST("/checkout/sessions", ch.CreateSession)
			public.GET("/bookings/:id", ch.Get)
			public.POST("/bookings/:id/cancel", ch.Cancel)
			public.GET("/experiences", eh.List)
			public.GET("/experiences/:slug", eh.Get)
			public.POST("/vendors/apply", vh.Apply)
		}

		staff := v1.Group("")
		staff.Use(JWTAuth())
		{
			staff.GET("/bookings", ch.List)
			staff.POST("/reminders/scan", rh.Scan)
			staff.GET("/vendors/applications", vh.List)
			staff.PUT("/vendors/applications/:id/status", vh.UpdateStatus)

			admin := staff.Group("")
			admin.Use(RequireRole("ADMIN"))
			admin.POST("/experiences", eh.Create)
			admin.PUT("/experiences/:id", eh.Update)
			admin.DELETE("/experiences/:id", eh.Delete)
		}
	}

	return r
}
