// Package events announces finished analysis runs on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "phdaily.analysis.completed"

// Connect dials NATS with reconnect handling logged through logger.
func Connect(url string, logger *log.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("phdaily"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Debug("NATS connection closed")
		}),
	}
	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// Event is the JSON payload published for every finished run.
type Event struct {
	RunID       products.RunID      `json:"run_id"`
	Date        string              `json:"date"`
	Status      products.Status     `json:"status"`
	Source      products.DataSource `json:"source"`
	Products    int                 `json:"products"`
	TopProducts []string            `json:"top_products"`
	ReportPath  string              `json:"report_path"`
	ReportURL   string              `json:"report_url,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
}

// Publisher implements products.Publisher.
type Publisher struct {
	conn    Conn
	subject string
}

func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

// Publish sends the event and waits for the server to acknowledge the flush,
// so a CLI run that exits right after still delivers it.
func (p *Publisher) Publish(ctx context.Context, r *products.Run) error {
	data, err := json.Marshal(Event{
		RunID:       r.ID,
		Date:        r.Date.Format("2006-01-02"),
		Status:      r.Status,
		Source:      r.Source,
		Products:    r.ProductCount,
		TopProducts: r.TopProducts,
		ReportPath:  r.ReportPath,
		ReportURL:   r.ReportURL,
		DurationMS:  r.DurationMS,
	})
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.conn.FlushWithContext(ctx)
}
