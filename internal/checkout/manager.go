package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/internal/payment"
	"github.com/squareeyes/storefront/pkg/enums"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/logger"
	"github.com/squareeyes/storefront/pkg/metrics"
)

// ManagerParams groups dependencies for the checkout manager.
type ManagerParams struct {
	Cart    *cart.Store
	Handoff *Handoff
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics

	// LuhnCheck enables the card number checksum on submission.
	LuhnCheck bool

	// Now and NewID are injectable for tests; they default to
	// time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Manager runs one checkout state machine per session. Sessions move
// Reviewing -> PaymentEntry -> Submitting -> Completed, with Back and
// a forced return to Reviewing when the cart empties underneath an
// open payment form.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	cart    *cart.Store
	handoff *Handoff
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	luhn    bool
	now     func() time.Time
	newID   func() string
}

type session struct {
	state enums.CheckoutState
	draft *payment.Draft

	// Snapshot taken when checkout began; prices stay locked even if
	// the catalog changes before submission.
	lines []cart.Line
	grand decimal.Decimal
}

// NewManager builds a checkout manager.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Handoff == nil {
		return nil, fmt.Errorf("order handoff required")
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}
	newID := params.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Manager{
		sessions: make(map[string]*session),
		cart:     params.Cart,
		handoff:  params.Handoff,
		logg:     params.Logger,
		metrics:  params.Metrics,
		luhn:     params.LuhnCheck,
		now:      now,
		newID:    newID,
	}, nil
}

// Status reports where a session's checkout stands, with the locked
// lines and total once checkout has begun.
type Status struct {
	State enums.CheckoutState `json:"state"`
	Lines []OrderLine         `json:"lines,omitempty"`
	Total decimal.Decimal     `json:"total"`
}

// SubmitInput carries the payment form as submitted. Card fields are
// raw; they are normalized the same way the form normalizes keystrokes
// before the strict checks run.
type SubmitInput struct {
	Name       string
	Email      string
	Method     enums.PaymentMethod
	CardNumber string
	Expiry     string
	CVC        string
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldFailure(field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(fieldDetail{Field: field, Message: message})
}

// Refresh reports the session's current checkout status, applying the
// forced return to Reviewing when the cart emptied mid-checkout.
func (m *Manager) Refresh(ctx context.Context, sessionID string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(sessionID)
	m.reconcile(ctx, sessionID, sess)
	return statusOf(sess)
}

// Begin starts checkout for the session. Only a session that is
// reviewing (or done with a previous checkout) and has a non-empty
// cart may begin; lines and the grand total are snapshotted here.
func (m *Manager) Begin(ctx context.Context, sessionID string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(sessionID)
	m.reconcile(ctx, sessionID, sess)

	if sess.state == enums.CheckoutStateCompleted {
		// A finished checkout leaves the session free to start over.
		sess.reset()
	}
	if sess.state != enums.CheckoutStateReviewing {
		return statusOf(sess), pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
	}

	lines := m.cart.ReadAll(ctx, sessionID)
	if len(lines) == 0 {
		return statusOf(sess), pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	sess.state = enums.CheckoutStatePaymentEntry
	sess.draft = payment.NewDraft()
	sess.lines = lines
	sess.grand = m.cart.Total(ctx, sessionID)

	if m.logg != nil {
		m.logg.Info(m.logg.WithSessionID(ctx, sessionID), "checkout started")
	}
	return statusOf(sess), nil
}

// Back abandons payment entry and returns to reviewing. The card draft
// is discarded; the cart is untouched.
func (m *Manager) Back(ctx context.Context, sessionID string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(sessionID)
	m.reconcile(ctx, sessionID, sess)

	if sess.state != enums.CheckoutStatePaymentEntry {
		return statusOf(sess), pkgerrors.New(pkgerrors.CodeStateConflict, "no checkout to go back from")
	}

	sess.reset()
	return statusOf(sess), nil
}

// Submit validates the payment form and, on success, freezes the
// snapshot into an order, hands it off for one-shot confirmation,
// clears the cart and completes the checkout. A validation failure
// re-presents the payment form with the cart untouched.
func (m *Manager) Submit(ctx context.Context, sessionID string, in SubmitInput) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(sessionID)
	m.reconcile(ctx, sessionID, sess)

	if sess.state != enums.CheckoutStatePaymentEntry {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no checkout in progress")
	}
	sess.state = enums.CheckoutStateSubmitting

	order, err := m.buildOrder(sess, in)
	if err != nil {
		sess.state = enums.CheckoutStatePaymentEntry
		return nil, err
	}

	ctx = m.withSession(ctx, sessionID)
	if err := m.handoff.Put(ctx, sessionID, *order); err != nil && m.logg != nil {
		m.logg.Warn(ctx, "order handoff failed, confirmation will be empty")
	}
	m.cart.Clear(ctx, sessionID)
	if m.metrics != nil {
		m.metrics.ObserveCheckout(order.Total)
	}
	if m.logg != nil {
		m.logg.Info(ctx, "checkout completed")
	}

	sess.state = enums.CheckoutStateCompleted
	sess.draft = nil
	return order, nil
}

// TakeLastOrder returns the session's completed order exactly once.
func (m *Manager) TakeLastOrder(ctx context.Context, sessionID string) (*Order, bool) {
	return m.handoff.Take(ctx, sessionID)
}

func (m *Manager) buildOrder(sess *session, in SubmitInput) (*Order, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fieldFailure("name", "name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fieldFailure("email", "email is required")
	}
	if !in.Method.IsValid() {
		return nil, fieldFailure("method", "unknown payment method")
	}

	var last4 *string
	if in.Method.RequiresCardDetails() {
		draft := sess.draft
		if draft == nil {
			draft = payment.NewDraft()
		}
		draft.Number.Edit(in.CardNumber)
		draft.Expiry.Edit(in.Expiry)
		draft.CVC.Edit(in.CVC)

		if fail := draft.Commit(m.luhn, m.now()); fail != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fail.Message).
				WithDetails(fieldDetail{Field: string(fail.Field), Message: fail.Message})
		}
		if digits := payment.Last4(draft.Number.Value()); digits != "" {
			last4 = &digits
		}
	}

	return &Order{
		ID:        m.newID(),
		CreatedAt: m.now(),
		Total:     sess.grand,
		Items:     orderLines(sess.lines),
		Customer:  Customer{Name: name, Email: email},
		Method:    in.Method,
		Last4:     last4,
	}, nil
}

// reconcile enforces the rule that an emptied cart drops the session
// back to reviewing before any transition is considered.
func (m *Manager) reconcile(ctx context.Context, sessionID string, sess *session) {
	if sess.state != enums.CheckoutStatePaymentEntry {
		return
	}
	if m.cart.Count(ctx, sessionID) == 0 {
		sess.reset()
		if m.logg != nil {
			m.logg.Warn(m.withSession(ctx, sessionID), "cart emptied mid-checkout, returning to review")
		}
	}
}

func (m *Manager) session(sessionID string) *session {
	sess, ok := m.sessions[sessionID]
	if !ok {
		sess = &session{state: enums.CheckoutStateReviewing}
		m.sessions[sessionID] = sess
	}
	return sess
}

func (m *Manager) withSession(ctx context.Context, sessionID string) context.Context {
	if m.logg == nil {
		return ctx
	}
	return m.logg.WithSessionID(ctx, sessionID)
}

func (s *session) reset() {
	s.state = enums.CheckoutStateReviewing
	s.draft = nil
	s.lines = nil
	s.grand = decimal.Zero
}

func statusOf(sess *session) Status {
	status := Status{State: sess.state, Total: sess.grand}
	if sess.state == enums.CheckoutStatePaymentEntry || sess.state == enums.CheckoutStateSubmitting {
		status.Lines = orderLines(sess.lines)
	}
	return status
}
