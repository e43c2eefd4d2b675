// Package mailer sends store notifications over SMTP.
package mailer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/phenrril/petalkids/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	ShopName string
	// Notify receives copies of new orders and contact messages. Empty skips them.
	Notify string
}

// Mailer implements domain.Notifier. Messages go out on background
// goroutines; Wait blocks until they are done.
type Mailer struct {
	cfg  Config
	send func(msgs ...*gomail.Message) error
	wg   sync.WaitGroup
}

func New(cfg Config) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return &Mailer{cfg: cfg, send: d.DialAndSend}
}

// NewWithSender delivers through s instead of dialling an SMTP server.
func NewWithSender(cfg Config, s gomail.Sender) *Mailer {
	return &Mailer{cfg: cfg, send: func(msgs ...*gomail.Message) error { return gomail.Send(s, msgs...) }}
}

func (m *Mailer) Wait() { m.wg.Wait() }

func (m *Mailer) OrderPlaced(o *domain.Order) {
	short := o.ID.String()[:8]
	var msgs []*gomail.Message
	if o.Email != "" {
		msgs = append(msgs, m.message(o.Email, fmt.Sprintf("%s order %s received", m.shop(), short), orderBody(o, m.shop())))
	}
	if m.cfg.Notify != "" {
		msgs = append(msgs, m.message(m.cfg.Notify, fmt.Sprintf("New order %s (%s)", short, o.Total.StringFixed(2)), orderBody(o, m.shop())))
	}
	m.dispatch("order_id", o.ID.String(), msgs)
}

func (m *Mailer) ContactReceived(c *domain.ContactMessage) {
	if m.cfg.Notify == "" {
		return
	}
	msg := m.message(m.cfg.Notify, "Contact form: "+c.Name, fmt.Sprintf("From: %s <%s>\n\n%s\n", c.Name, c.Email, c.Message))
	msg.SetHeader("Reply-To", c.Email)
	m.dispatch("message_id", c.ID.String(), []*gomail.Message{msg})
}

func (m *Mailer) dispatch(key, id string, msgs []*gomail.Message) {
	if len(msgs) == 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.send(msgs...); err != nil {
			log.Error().Err(err).Str(key, id).Msg("notification not sent")
			return
		}
		log.Debug().Str(key, id).Int("messages", len(msgs)).Msg("notification sent")
	}()
}

func (m *Mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.shop())
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

func (m *Mailer) shop() string {
	if m.cfg.ShopName == "" {
		return "Petal Kids"
	}
	return m.cfg.ShopName
}

func orderBody(o *domain.Order, shop string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for shopping with %s. Your order %s is %s.\n\n", o.Shipping.FirstName, shop, o.ID, o.Status)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %d x %s  %s\n", it.Qty, it.Title, it.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", o.Subtotal.StringFixed(2))
	if o.DiscountCode != "" {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", o.DiscountCode, o.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s\n\nShipping to:\n%s %s\n%s\n", o.Total.StringFixed(2), o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Address)
	if o.Shipping.Address2 != "" {
		fmt.Fprintf(&b, "%s\n", o.Shipping.Address2)
	}
	fmt.Fprintf(&b, "%s %s\n", o.Shipping.City, o.Shipping.Postcode)
	return b.String()
}
