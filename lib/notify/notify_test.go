package notify

import (
	"bytes"
	"context"
	"testing"
	"travel-order-backend/lib/smtp"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	configured bool
	sent       []smtp.Mail
}

func (f *fakeSender) Configured() bool {
	return f.configured
}

func (f *fakeSender) SendMail(mail smtp.Mail) error {
	f.sent = append(f.sent, mail)
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) TravelOrderPDF(_ context.Context, order dbmodels.TravelOrder, _ bool) ([]byte, string, error) {
	return []byte("%PDF"), "TRAVEL_ORDER_" + order.ID + ".pdf", nil
}

func (fakeRenderer) TravelOrderXLS(context.Context, dbmodels.TravelOrder, bool) (*bytes.Buffer, string, error) {
	return nil, "", nil
}

func (fakeRenderer) TimeLogsXLS([]dbmodels.TimeLog) (*bytes.Buffer, string, error) {
	return nil, "", nil
}

func order(status models.TravelOrderStatus) dbmodels.TravelOrder {
	personnel := &dbmodels.Personnel{}
	personnel.Email = "juan@example.com"
	d1 := &dbmodels.Director{}
	d1.Email = "ana@example.com"
	d2 := &dbmodels.Director{}
	rec := dbmodels.TravelOrder{
		Personnel:   personnel,
		Destination: "Cebu <City>",
		Status:      status,
		ChainLength: 2,
		Approvals: []dbmodels.TravelOrderApproval{
			{StepOrder: 1, Director: d1},
			{StepOrder: 2, Director: d2},
		},
	}
	rec.ID = "to-1"
	return rec
}

func TestNotify(t *testing.T) {
	t.Run("submit goes to step 1", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		NewInstance(sender, fakeRenderer{}).Submitted(context.TODO(), order(models.TOStatusPending))
		require.Len(t, sender.sent, 1)
		require.Equal(t, []string{"ana@example.com"}, sender.sent[0].To)
		require.Contains(t, sender.sent[0].HTMLBody, "Cebu &lt;City&gt;")
	})
	t.Run("recipient without email is skipped", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		NewInstance(sender, fakeRenderer{}).Recommended(context.TODO(), order(models.TOStatusPending))
		require.Empty(t, sender.sent)
	})
	t.Run("approval carries the pdf", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		NewInstance(sender, fakeRenderer{}).Decided(context.TODO(), order(models.TOStatusApproved))
		require.Len(t, sender.sent, 1)
		require.Equal(t, []string{"juan@example.com"}, sender.sent[0].To)
		require.Len(t, sender.sent[0].Attachments, 1)
		require.Equal(t, "TRAVEL_ORDER_to-1.pdf", sender.sent[0].Attachments[0].FileName)
	})
	t.Run("rejection has no attachment", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		NewInstance(sender, fakeRenderer{}).Decided(context.TODO(), order(models.TOStatusRejected))
		require.Len(t, sender.sent, 1)
		require.Empty(t, sender.sent[0].Attachments)
	})
	t.Run("unconfigured smtp sends nothing", func(t *testing.T) {
		sender := &fakeSender{}
		NewInstance(sender, fakeRenderer{}).Decided(context.TODO(), order(models.TOStatusApproved))
		require.Empty(t, sender.sent)
	})
}
