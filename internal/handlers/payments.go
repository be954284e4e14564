package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"vetconnect-server/internal/config"
	"vetconnect-server/internal/payment"
	"vetconnect-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler exposes the gateway redirect flow and the success/failure
// callbacks keyed by the appointment identity.
type PaymentHandler struct {
	Svc *payment.Service
	Cfg *config.Config
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *payment.Service, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Cfg: cfg}
}

// redirectFormTmpl auto-submits the signed payment form to the gateway.
var redirectFormTmpl = template.Must(template.New("esewa").Parse(`<html>
  <head><title>Redirecting to eSewa...</title></head>
  <body onload="document.getElementById('esewaForm').submit()">
    <form id="esewaForm" method="POST" action="{{.FormURL}}">
      <input type="hidden" name="amount" value="{{.Amount}}" />
      <input type="hidden" name="tax_amount" value="{{.TaxAmount}}" />
      <input type="hidden" name="product_service_charge" value="{{.ServiceCharge}}" />
      <input type="hidden" name="product_delivery_charge" value="{{.DeliveryCharge}}" />
      <input type="hidden" name="total_amount" value="{{.TotalAmount}}" />
      <input type="hidden" name="transaction_uuid" value="{{.TransactionUUID}}" />
      <input type="hidden" name="product_code" value="{{.ProductCode}}" />
      <input type="hidden" name="success_url" value="{{.SuccessURL}}" />
      <input type="hidden" name="failure_url" value="{{.FailureURL}}" />
      <input type="hidden" name="signed_field_names" value="{{.SignedFields}}" />
      <input type="hidden" name="signature" value="{{.Signature}}" />
    </form>
  </body>
</html>`))

// Initiate renders the signed auto-submitting form that redirects the
// browser to the payment gateway for the given appointment.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	appointmentIDStr := c.Param("id")
	if _, err := uuid.Parse(appointmentIDStr); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	fields, err := h.Svc.BuildRedirect(
		c.Request.Context(),
		appointmentIDStr,
		h.Cfg.AppURL+"/api/v1/payment/esewa/success?appointmentId="+appointmentIDStr,
		h.Cfg.AppURL+"/api/v1/payment/esewa/failure?appointmentId="+appointmentIDStr,
	)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Payment initiation failed: "+err.Error())
		}
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := redirectFormTmpl.Execute(c.Writer, fields); err != nil {
		utils.InternalServerError(c, "Failed to render payment form")
	}
}

// Success is the gateway's success callback. Idempotent by the transaction
// reference; the browser is redirected to the frontend either way.
func (h *PaymentHandler) Success(c *gin.Context) {
	appointmentID := c.Query("appointmentId")
	pid := c.Query("pid")
	amount, err := strconv.ParseFloat(c.Query("amt"), 64)
	if err != nil {
		// The transaction's raw query keeps the original value for
		// reconciliation; the record itself carries amount 0.
		log.Printf("payment success callback with unparseable amount %q: %v", c.Query("amt"), err)
	}

	if appointmentID == "" || pid == "" {
		c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-failure")
		return
	}

	err = h.Svc.HandleSuccess(c.Request.Context(), appointmentID, pid, amount, c.Request.URL.RawQuery)
	if err != nil {
		c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-failure")
		return
	}

	c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-success")
}

// Failure is the gateway's failure callback. The unpaid booking is deleted;
// a missing appointment is tolerated since the user may have abandoned the
// flow already.
func (h *PaymentHandler) Failure(c *gin.Context) {
	appointmentID := c.Query("appointmentId")
	if appointmentID == "" {
		appointmentID = c.Query("pid")
	}

	// Best-effort rollback; the redirect happens regardless.
	_ = h.Svc.HandleFailure(c.Request.Context(), appointmentID)

	c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/payment-failure")
}

// Status looks up a transaction by its reference for the processing page.
func (h *PaymentHandler) Status(c *gin.Context) {
	pid := c.Param("pid")

	tx, err := h.Svc.StatusByPID(c.Request.Context(), pid)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			utils.NotFound(c, "Transaction not found")
		} else {
			utils.InternalServerError(c, "Failed to check payment status: "+err.Error())
		}
		return
	}

	utils.Success(c, "Payment status fetched successfully", tx)
}
