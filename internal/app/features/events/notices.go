package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/mailer"
	"github.com/openparish/steward/internal/app/system/smsgateway"
	"github.com/openparish/steward/internal/domain/models"
)

// sendVolunteerNotice emails and texts the member about their new
// assignment. Runs on its own goroutine with a fresh context; failures
// are logged and dropped.
func (h *Handler) sendVolunteerNotice(a *models.VolunteerAssignment) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	m, err := h.Members.Get(ctx, a.MemberID)
	if err != nil {
		return
	}
	e, err := h.Events.Get(ctx, a.EventID)
	if err != nil {
		return
	}

	if h.Mailer != nil && m.Email != "" {
		msg := mailer.BuildVolunteerNoticeEmail(mailer.VolunteerNoticeEmailData{
			ChurchName: h.ChurchName,
			MemberName: m.FirstName + " " + m.LastName,
			EventTitle: e.Name,
			Task:       a.Task,
			StartsAt:   e.StartsAt.Format("Monday, January 2 at 3:04 PM"),
			Location:   e.Location,
		})
		msg.To = m.Email
		if err := h.Mailer.Send(msg); err != nil {
			h.Log.Warn("volunteer notice email failed",
				zap.String("assignment_id", a.ID.String()),
				zap.Error(err))
		}
	}

	if h.SMS != nil && m.Phone != "" {
		body := fmt.Sprintf("%s: you are scheduled as %s for %s on %s.",
			h.ChurchName, a.Task, e.Name, e.StartsAt.Format("Jan 2 3:04 PM"))
		if err := h.SMS.Send(ctx, smsgateway.Message{To: m.Phone, Body: body}); err != nil {
			h.Log.Warn("volunteer notice SMS failed",
				zap.String("assignment_id", a.ID.String()),
				zap.Error(err))
		}
	}
}
