package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"zakupBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	viewerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleViewer))
	payablesMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RolePayables))
	approverMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleApprover))
	adminMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/sign_out", viewerMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/:id", viewerMiddleware.ThenFunc(app.userHandler.GetUserByID))

	// Vendors
	mux.Post("/vendors", payablesMiddleware.ThenFunc(app.vendorHandler.CreateVendor))
	mux.Get("/vendors", viewerMiddleware.ThenFunc(app.vendorHandler.GetVendors))
	mux.Get("/vendors/:id", viewerMiddleware.ThenFunc(app.vendorHandler.GetVendorByID))
	mux.Put("/vendors/:id", payablesMiddleware.ThenFunc(app.vendorHandler.UpdateVendor))
	mux.Del("/vendors/:id", payablesMiddleware.ThenFunc(app.vendorHandler.ArchiveVendor))

	// Projects
	mux.Post("/projects", payablesMiddleware.ThenFunc(app.projectHandler.CreateProject))
	mux.Get("/projects", viewerMiddleware.ThenFunc(app.projectHandler.GetProjects))
	mux.Get("/projects/:id", viewerMiddleware.ThenFunc(app.projectHandler.GetProjectByID))
	mux.Put("/projects/:id", payablesMiddleware.ThenFunc(app.projectHandler.UpdateProject))

	// Purchase orders
	mux.Post("/purchase_orders", payablesMiddleware.ThenFunc(app.purchaseOrderHandler.CreatePurchaseOrder))
	mux.Get("/purchase_orders", viewerMiddleware.ThenFunc(app.purchaseOrderHandler.GetPurchaseOrders))
	mux.Get("/purchase_orders/:id/invoices", viewerMiddleware.ThenFunc(app.invoiceHandler.GetInvoicesByPurchaseOrder))
	mux.Get("/purchase_orders/:id/financials", viewerMiddleware.ThenFunc(app.purchaseOrderHandler.VerifyFinancials))
	mux.Post("/purchase_orders/:id/financials/sync", payablesMiddleware.ThenFunc(app.purchaseOrderHandler.SyncFinancials))
	mux.Get("/purchase_orders/:id", viewerMiddleware.ThenFunc(app.purchaseOrderHandler.GetPurchaseOrderByID))
	mux.Put("/purchase_orders/:id", payablesMiddleware.ThenFunc(app.purchaseOrderHandler.UpdatePurchaseOrder))

	// Invoices
	mux.Post("/invoices/mark_overdue", adminMiddleware.ThenFunc(app.invoiceHandler.MarkOverdue))
	mux.Post("/invoices", payablesMiddleware.ThenFunc(app.invoiceHandler.CreateInvoice))
	mux.Get("/invoices", viewerMiddleware.ThenFunc(app.invoiceHandler.GetInvoices))
	mux.Post("/invoices/:id/receive", payablesMiddleware.ThenFunc(app.invoiceHandler.Receive))
	mux.Post("/invoices/:id/approve", approverMiddleware.ThenFunc(app.invoiceHandler.Approve))
	mux.Post("/invoices/:id/reject", approverMiddleware.ThenFunc(app.invoiceHandler.Reject))
	mux.Post("/invoices/:id/reset", payablesMiddleware.ThenFunc(app.invoiceHandler.Reset))
	mux.Post("/invoices/:id/attachment", payablesMiddleware.ThenFunc(app.invoiceHandler.UploadAttachment))
	mux.Get("/invoices/:id/audit", viewerMiddleware.ThenFunc(app.invoiceHandler.GetAuditTrail))
	mux.Get("/invoices/:id", viewerMiddleware.ThenFunc(app.invoiceHandler.GetInvoiceByID))
	mux.Put("/invoices/:id", payablesMiddleware.ThenFunc(app.invoiceHandler.UpdateInvoice))
	mux.Del("/invoices/:id", adminMiddleware.ThenFunc(app.invoiceHandler.DeleteInvoice))

	// Check requisitions
	mux.Post("/check_requisitions", payablesMiddleware.ThenFunc(app.requisitionHandler.CreateRequisition))
	mux.Get("/check_requisitions", viewerMiddleware.ThenFunc(app.requisitionHandler.GetRequisitions))
	mux.Post("/check_requisitions/:id/approve", approverMiddleware.ThenFunc(app.requisitionHandler.Approve))
	mux.Post("/check_requisitions/:id/reject", approverMiddleware.ThenFunc(app.requisitionHandler.Reject))
	mux.Post("/check_requisitions/:id/reset", payablesMiddleware.ThenFunc(app.requisitionHandler.Reset))
	mux.Get("/check_requisitions/:id/audit", viewerMiddleware.ThenFunc(app.requisitionHandler.GetAuditTrail))
	mux.Get("/check_requisitions/:id", viewerMiddleware.ThenFunc(app.requisitionHandler.GetRequisitionByID))

	// Disbursements
	mux.Post("/disbursements", payablesMiddleware.ThenFunc(app.disbursementHandler.CreateDisbursement))
	mux.Get("/disbursements", viewerMiddleware.ThenFunc(app.disbursementHandler.GetDisbursements))
	mux.Post("/disbursements/:id/print", payablesMiddleware.ThenFunc(app.disbursementHandler.MarkPrinting))
	mux.Post("/disbursements/:id/release", payablesMiddleware.ThenFunc(app.disbursementHandler.Release))
	mux.Post("/disbursements/:id/void", payablesMiddleware.ThenFunc(app.disbursementHandler.Void))
	mux.Get("/disbursements/:id/audit", viewerMiddleware.ThenFunc(app.disbursementHandler.GetAuditTrail))
	mux.Get("/disbursements/:id", viewerMiddleware.ThenFunc(app.disbursementHandler.GetDisbursementByID))

	// Reconciliation
	mux.Post("/reconciliation/run", adminMiddleware.ThenFunc(app.purchaseOrderHandler.RunReconciliation))

	// Dashboard
	mux.Get("/dashboard/summary", viewerMiddleware.ThenFunc(app.dashboardHandler.GetSummary))

	// Workflow events feed
	mux.Get("/ws", viewerMiddleware.ThenFunc(app.eventsHub.Serve))

	return standardMiddleware.Then(mux)
}
