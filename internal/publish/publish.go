// Package publish emits computed incentive reports to Kafka, one message per base.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/incentive/core/engine"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/segmentio/kafka-go"
)

var errNoBrokers = errors.New("at least one kafka broker is required")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes base results keyed by normalized base code, so every
// result of one base lands on the same partition.
type Publisher struct {
	topic  string
	writer messageWriter
}

var _ contract.ReportPublisher = &Publisher{} // Compile-time check

// NewPublisher builds a Publisher over a hash-balanced kafka.Writer.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errNoBrokers
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka topic must not be empty")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newPublisherWithWriter(topic, w), nil
}

func newPublisherWithWriter(topic string, w messageWriter) *Publisher {
	return &Publisher{topic: topic, writer: w}
}

// PillarEvent is the wire form of one pillar. Value is null when not applicable.
type PillarEvent struct {
	Pillar schema.Pillar `json:"pillar"`
	Status string        `json:"status"`
	Value  *string       `json:"value"`
	Tier   int           `json:"tier"`
}

// BaseEvent is the message body for one base.
type BaseEvent struct {
	Window    schema.Window `json:"window"`
	Code      string        `json:"code"`
	Rank      int           `json:"rank"`
	Leader    string        `json:"leader"`
	Eligible  *bool         `json:"eligible"` // null when the gate did not apply
	Total     string        `json:"total"`
	Projected string        `json:"projected"`
	Pillars   []PillarEvent `json:"pillars"`
}

// NewBaseEvent converts one ranked base result into its message body.
func NewBaseEvent(w schema.Window, r schema.BaseIncentiveReport) BaseEvent {
	ev := BaseEvent{
		Window:    w,
		Code:      engine.NormalizeCode(r.Code),
		Rank:      r.Rank,
		Leader:    r.Base.LeaderName,
		Eligible:  r.Eligible,
		Total:     r.Total.StringFixed(2),
		Projected: r.Projected.StringFixed(2),
		Pillars:   make([]PillarEvent, 0, len(r.Pillars)),
	}
	for _, p := range r.Pillars {
		pe := PillarEvent{Pillar: p.Pillar, Status: string(p.Status), Tier: p.Tier}
		if p.Applicable() {
			v := p.Value.StringFixed(2)
			pe.Value = &v
		}
		ev.Pillars = append(ev.Pillars, pe)
	}
	return ev
}

// PublishReport writes one message per base in rank order.
func (p *Publisher) PublishReport(ctx context.Context, report schema.IncentiveReport) error {
	if len(report.Reports) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(report.Reports))
	for _, r := range report.Reports {
		ev := NewBaseEvent(report.Window, r)
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode %s: %w", ev.Code, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(ev.Code), Value: value})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
