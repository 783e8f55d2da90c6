// Package brevo integrates with the Brevo transactional email platform. It
// registers waitlist signups as contacts on a configured list, which triggers
// the welcome automation on the Brevo side, and exposes a connection probe
// for health reporting.
package brevo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	lib "github.com/getbrevo/brevo-go/lib"

	"github.com/lavoo/waitlist/internal/waitlist/domain"
)

// Contact attribute names expected by the Brevo automation templates.
const (
	attrSignupDate       = "SIGNUP_DATE"
	attrWaitlistPosition = "WAITLIST_POSITION"
	attrFirstName        = "FIRSTNAME"
	attrLastName         = "LASTNAME"
	attrReferralSource   = "REFERRAL_SOURCE"
)

// Option customizes the underlying API client configuration.
type Option func(*lib.Configuration)

// WithBaseURL overrides the Brevo API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(baseURL string) Option {
	return func(cfg *lib.Configuration) {
		cfg.BasePath = baseURL
	}
}

// Client wraps the Brevo SDK for waitlist contact management.
type Client struct {
	api    *lib.APIClient
	listID int64
	logger *slog.Logger
}

// NewClient creates a Brevo client authenticated with the given API key.
// Contacts are added to the list identified by listID.
func NewClient(apiKey string, listID int64, logger *slog.Logger, opts ...Option) *Client {
	cfg := lib.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		api:    lib.NewAPIClient(cfg),
		listID: listID,
		logger: logger,
	}
}

// ListID returns the configured target list identifier.
func (c *Client) ListID() int64 {
	return c.listID
}

// AddContact registers a contact on the configured list. Failures are
// classified into the returned outcome instead of an error: the caller
// records the outcome on the stored entry and moves on.
func (c *Client) AddContact(ctx context.Context, contact domain.Contact) domain.SyncOutcome {
	attributes := map[string]interface{}{
		attrSignupDate:       contact.SignupDate.Format("2006-01-02"),
		attrWaitlistPosition: contact.Position,
	}
	if first, last := domain.SplitName(contact.Name); first != "" {
		attributes[attrFirstName] = first
		if last != "" {
			attributes[attrLastName] = last
		}
	}
	if contact.ReferralSource != "" {
		attributes[attrReferralSource] = contact.ReferralSource
	}

	createContact := lib.CreateContact{
		Email:         contact.Email,
		Attributes:    attributes,
		ListIds:       []int64{c.listID},
		UpdateEnabled: true,
	}

	model, resp, err := c.api.ContactsApi.CreateContact(ctx, createContact)
	if err != nil {
		// With updateEnabled, an existing contact comes back as 204 with an
		// empty body, which the generated client reports as a decode error.
		if resp != nil && resp.StatusCode < http.StatusMultipleChoices {
			return domain.SyncOutcome{
				Status:  domain.SyncStatusSuccess,
				Message: "Contact updated in Brevo",
			}
		}
		outcome := c.classifyCreateFailure(err, resp)
		if outcome.Succeeded() {
			c.logger.WarnContext(ctx, "contact already exists in brevo",
				slog.String("email", contact.Email),
			)
		} else {
			c.logger.ErrorContext(ctx, "brevo contact sync failed",
				slog.String("email", contact.Email),
				slog.String("error_code", string(outcome.ErrorCode)),
				slog.String("error", outcome.Message),
			)
		}
		return outcome
	}

	var contactID string
	if model.Id != 0 {
		contactID = strconv.FormatInt(model.Id, 10)
	}

	c.logger.InfoContext(ctx, "contact added to brevo",
		slog.String("email", contact.Email),
		slog.String("contact_id", contactID),
	)

	return domain.SyncOutcome{
		Status:    domain.SyncStatusSuccess,
		ContactID: contactID,
		Message:   "Contact added and automation triggered",
	}
}

// classifyCreateFailure maps a CreateContact error to a sync outcome.
func (c *Client) classifyCreateFailure(err error, resp *http.Response) domain.SyncOutcome {
	var statusCode int
	if resp != nil {
		statusCode = resp.StatusCode
	}

	var body []byte
	var swaggerErr lib.GenericSwaggerError
	if errors.As(err, &swaggerErr) {
		body = swaggerErr.Body()
	}

	return classifySyncFailure(statusCode, body, err)
}

// ConnectionStatus describes the result of a Brevo connectivity probe.
type ConnectionStatus struct {
	Connected    bool   `json:"connected"`
	AccountEmail string `json:"account_email,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	PlanType     string `json:"plan_type,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CheckConnection verifies Brevo reachability and credentials by fetching the
// account profile. It never returns an error: failures are reported in the
// status so health aggregation can degrade instead of fail.
func (c *Client) CheckConnection(ctx context.Context) ConnectionStatus {
	account, _, err := c.api.AccountApi.GetAccount(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "brevo connection check failed", slog.String("error", err.Error()))
		return ConnectionStatus{
			Connected: false,
			Error:     err.Error(),
		}
	}

	status := ConnectionStatus{
		Connected:    true,
		AccountEmail: account.Email,
		CompanyName:  account.CompanyName,
	}
	if len(account.Plan) > 0 {
		status.PlanType = account.Plan[0].Type_
	}

	return status
}
