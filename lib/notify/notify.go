package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"travel-order-backend/lib/export"
	"travel-order-backend/lib/smtp"
	initchecker "travel-order-backend/lib/utils/init-checker"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func NewHandler() {
	initchecker.CheckInit(
		"smtp", smtp.Instance,
		"export", export.Instance,
	)
	Instance = NewInstance(smtp.Instance, export.Instance)
}

// NewInstance sends mail through sender; renderer is optional and only used to attach the approved PDF.
func NewInstance(sender smtp.Provider, renderer export.Provider) Provider {
	return &impl{
		sender:   sender,
		renderer: renderer,
	}
}

type impl struct {
	sender   smtp.Provider
	renderer export.Provider
}

func (i impl) Submitted(ctx context.Context, order dbmodels.TravelOrder) {
	approval := order.GetApproval(models.RecommendingStep)
	if approval == nil || approval.Director == nil {
		return
	}
	i.send(order, smtp.Mail{
		To:       recipients(approval.Director.Email),
		Subject:  "Travel order awaiting your action",
		HTMLBody: body("A travel order is waiting for your action.", order),
	})
}

func (i impl) Recommended(ctx context.Context, order dbmodels.TravelOrder) {
	approval := order.GetApproval(models.ApprovingStep)
	if approval == nil || approval.Director == nil {
		return
	}
	i.send(order, smtp.Mail{
		To:       recipients(approval.Director.Email),
		Subject:  "Travel order recommended for approval",
		HTMLBody: body("A travel order was recommended and is waiting for your approval.", order),
	})
}

func (i impl) Decided(ctx context.Context, order dbmodels.TravelOrder) {
	if order.Personnel == nil {
		return
	}
	mail := smtp.Mail{
		To:       recipients(order.Personnel.Email),
		Subject:  fmt.Sprintf("Travel order %s", order.Status),
		HTMLBody: body(fmt.Sprintf("Your travel order was %s.", order.Status), order),
	}
	if order.Status == models.TOStatusApproved && i.renderer != nil {
		pdf, fileName, err := i.renderer.TravelOrderPDF(ctx, order, false)
		if err != nil {
			log.WithError(err).WithField("travel_order_id", order.ID).Warn("approved travel order sent without pdf")
		} else {
			mail.Attachments = append(mail.Attachments, smtp.Attachment{
				FileName:    fileName,
				ContentType: "application/pdf",
				Body:        pdf,
			})
		}
	}
	i.send(order, mail)
}

func (i impl) send(order dbmodels.TravelOrder, mail smtp.Mail) {
	logger := log.
		WithField("travel_order_id", order.ID).
		WithField("subject", mail.Subject)
	if i.sender == nil || !i.sender.Configured() {
		logger.Warn("notification skipped, smtp client is not configured")
		return
	}
	if len(mail.To) == 0 {
		logger.Warn("notification skipped, recipient has no email")
		return
	}
	if err := i.sender.SendMail(mail); err != nil {
		logger.WithError(err).Error("failed to send notification")
	}
}

func recipients(email string) []string {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return []string{email}
}

func body(headline string, order dbmodels.TravelOrder) string {
	owner := "N/A"
	if order.Personnel != nil {
		owner = order.Personnel.GetFullName()
	}
	return fmt.Sprintf("<p>%s</p><p><b>Personnel:</b> %s<br><b>Destination:</b> %s<br><b>Purpose:</b> %s<br><b>Dates:</b> %s to %s</p>",
		html.EscapeString(headline),
		html.EscapeString(owner),
		html.EscapeString(order.Destination),
		html.EscapeString(order.TravelPurpose),
		order.StartDate.Format("January 02, 2006"),
		order.EndDate.Format("January 02, 2006"),
	)
}
