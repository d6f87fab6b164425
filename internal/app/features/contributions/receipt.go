package contributions

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/mailer"
	"github.com/openparish/steward/internal/domain/models"
)

// sendReceipt emails a giving receipt for c. Runs on its own goroutine
// with a fresh context; failures are logged and dropped.
func (h *Handler) sendReceipt(c *models.Contribution) {
	if h.Mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := h.Members.Get(ctx, c.MemberID)
	if err != nil || m.Email == "" {
		return
	}
	b, err := h.Budgets.Get(ctx, c.BudgetID)
	if err != nil {
		return
	}

	msg := mailer.BuildReceiptEmail(mailer.ReceiptEmailData{
		ChurchName: h.ChurchName,
		MemberName: m.FirstName + " " + m.LastName,
		Amount:     formatCents(c.AmountCents),
		FundName:   b.Name,
		Method:     c.Method,
		GivenOn:    c.GivenAt.Format("January 2, 2006"),
	})
	msg.To = m.Email

	if err := h.Mailer.Send(msg); err != nil {
		h.Log.Warn("receipt email failed",
			zap.String("contribution_id", c.ID.String()),
			zap.Error(err))
	}
}
