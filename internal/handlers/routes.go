package handlers

import (
	"foodtruck-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Routes registers the API on r. Registration is only mounted when
// allowRegistration is set.
func (h *Handler) Routes(r gin.IRouter, allowRegistration bool) {
	r.GET("/health", h.Health)
	r.POST("/login", h.Login)
	if allowRegistration {
		r.POST("/register", h.Register)
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Tokens))
	{
		// A new operator has no truck yet
		api.POST("/trucks", h.RegisterTruck)

		truck := api.Group("")
		truck.Use(middleware.RequireTruck(h.Catalog))
		{
			truck.GET("/truck", h.GetTruck)
			truck.PUT("/truck", h.UpdateTruck)
			truck.DELETE("/truck/data", h.PurgeTruckData)
			truck.POST("/logout", h.Logout)

			truck.GET("/menus", h.GetMenus)
			truck.POST("/menus", h.AddMenu)
			truck.GET("/menus/:id", h.GetMenu)
			truck.PUT("/menus/:id", h.UpdateMenu)
			truck.DELETE("/menus/:id", h.DeleteMenu)

			truck.GET("/business", h.GetBusiness)
			truck.POST("/business/start", h.StartBusiness)
			truck.POST("/business/:id/close", h.CloseBusiness)

			truck.GET("/draft", h.GetDraft)
			truck.DELETE("/draft", h.ClearDraft)
			truck.POST("/draft/items", h.AddDraftItem)
			truck.PATCH("/draft/items/:menuId", h.ChangeDraftItem)

			truck.POST("/orders", h.SubmitOrder)
			truck.GET("/orders/pending", h.GetPendingOrders)
			truck.POST("/orders/:id/complete", h.CompleteOrder)
			truck.POST("/orders/:id/cancel", h.CancelOrder)

			truck.GET("/sales", h.GetSalesReport)
			truck.GET("/sales/details", h.GetSalesDetails)
			truck.GET("/sales/export", h.ExportSales)

			truck.POST("/ask", h.AskAI)
		}
	}
}
