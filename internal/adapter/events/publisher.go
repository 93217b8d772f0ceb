package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Subjects for state-transition events.
const (
	SubjectItemStatus      = "sharecircle.item.status"
	SubjectRequestStatus   = "sharecircle.request.status"
	SubjectLogisticsStatus = "sharecircle.logistics.status"
)

// Publisher emits transition events over NATS. Publishing is fire and
// forget: a broker outage must never fail the exchange that triggered it.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

// Publish marshals payload as JSON and publishes it on subject.
func (p *Publisher) Publish(_ context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

// Close drains the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
