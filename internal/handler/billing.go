package handler

import (
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/auth"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/billing"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/model"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

type BillingHandler struct {
	stripeClient *billing.Client
	enabled      bool
	profileStore *store.ProfileStore
	templates    *template.Template
	logger       *slog.Logger
}

func NewBillingHandler(
	sc *billing.Client,
	enabled bool,
	ps *store.ProfileStore,
	logger *slog.Logger,
) *BillingHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/pricing.html"))
	return &BillingHandler{
		stripeClient: sc,
		enabled:      enabled,
		profileStore: ps,
		templates:    tmpl,
		logger:       logger,
	}
}

func (h *BillingHandler) PricingPage(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	h.templates.ExecuteTemplate(w, "pricing.html", map[string]any{
		"LoggedIn":       ac.UserID != "",
		"Member":         auth.IsMember(r.Context()),
		"BillingEnabled": h.enabled,
	})
}

// Checkout starts a Stripe subscription checkout for the pro plan and
// redirects the browser to the hosted payment page.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !h.enabled {
		http.Error(w, "billing not configured", http.StatusServiceUnavailable)
		return
	}

	profile, err := h.profileStore.GetByUserID(ac.UserID)
	if err != nil || profile == nil {
		h.logger.Error("checkout profile lookup", "error", err)
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	customerID := ""
	if profile.StripeCustomerID != nil {
		customerID = *profile.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = h.stripeClient.CreateCustomer(ac.Email)
		if err != nil {
			h.logger.Error("create stripe customer", "error", err)
			http.Error(w, "failed to create customer", http.StatusInternalServerError)
			return
		}
		if err := h.profileStore.SetStripeCustomerID(ac.UserID, customerID); err != nil {
			h.logger.Error("save stripe customer id", "error", err)
		}
	}

	url, err := h.stripeClient.CreateCheckoutSession(customerID, ac.UserID)
	if err != nil {
		h.logger.Error("create checkout session", "error", err)
		http.Error(w, "failed to create checkout session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Portal redirects a paying member to the Stripe billing portal.
func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := h.profileStore.GetByUserID(ac.UserID)
	if err != nil || profile == nil || profile.StripeCustomerID == nil {
		http.Error(w, "no billing account", http.StatusBadRequest)
		return
	}

	returnURL := r.Header.Get("Referer")
	if returnURL == "" {
		returnURL = "/notes"
	}

	url, err := h.stripeClient.CreateBillingPortalSession(*profile.StripeCustomerID, returnURL)
	if err != nil {
		h.logger.Error("create billing portal session", "error", err)
		http.Error(w, "failed to create portal session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *BillingHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	event, err := h.stripeClient.ConstructWebhookEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutCompleted(event)
	case "customer.subscription.updated":
		h.handleSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		h.handleSubscriptionDeleted(event)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *BillingHandler) handleCheckoutCompleted(event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.logger.Error("webhook: unmarshal checkout session", "error", err)
		return
	}

	userID := sess.ClientReferenceID
	if userID == "" {
		h.logger.Error("webhook: checkout session missing client reference")
		return
	}

	profile, err := h.profileStore.GetByUserID(userID)
	if err != nil || profile == nil {
		h.logger.Error("webhook: profile lookup", "user_id", userID, "error", err)
		return
	}

	if sess.Customer != nil {
		if err := h.profileStore.SetStripeCustomerID(userID, sess.Customer.ID); err != nil {
			h.logger.Error("webhook: save stripe customer id", "error", err)
		}
	}
	if sess.Subscription != nil {
		subID := sess.Subscription.ID
		if err := h.profileStore.SetStripeSubscriptionID(userID, &subID); err != nil {
			h.logger.Error("webhook: save stripe subscription id", "error", err)
		}
	}

	if err := h.profileStore.UpdateMembership(userID, model.MembershipPro); err != nil {
		h.logger.Error("webhook: upgrade membership", "user_id", userID, "error", err)
		return
	}
	h.logger.Info("webhook: checkout completed", "user_id", userID)
}

func (h *BillingHandler) handleSubscriptionUpdated(event stripe.Event) {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		h.logger.Error("webhook: unmarshal subscription", "error", err)
		return
	}
	if stripeSub.Customer == nil {
		return
	}

	profile, err := h.profileStore.GetByStripeCustomerID(stripeSub.Customer.ID)
	if err != nil || profile == nil {
		return
	}

	membership := model.MembershipFree
	switch stripeSub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		membership = model.MembershipPro
	}
	if err := h.profileStore.UpdateMembership(profile.UserID, membership); err != nil {
		h.logger.Error("webhook: update membership", "user_id", profile.UserID, "error", err)
	}
}

func (h *BillingHandler) handleSubscriptionDeleted(event stripe.Event) {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		h.logger.Error("webhook: unmarshal subscription", "error", err)
		return
	}
	if stripeSub.Customer == nil {
		return
	}

	profile, err := h.profileStore.GetByStripeCustomerID(stripeSub.Customer.ID)
	if err != nil || profile == nil {
		return
	}

	if err := h.profileStore.UpdateMembership(profile.UserID, model.MembershipFree); err != nil {
		h.logger.Error("webhook: downgrade membership", "user_id", profile.UserID, "error", err)
	}
	if err := h.profileStore.SetStripeSubscriptionID(profile.UserID, nil); err != nil {
		h.logger.Error("webhook: clear stripe subscription id", "error", err)
	}
}
