// Package events publishes enrollment change notifications for downstream
// consumers (dashboards, audit feeds). Publishing is best effort: a failed
// publish is logged and never fails the enrollment itself.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types emitted by the enrollment engine.
const (
	TypeEnrolled = "enrollment.enrolled"
	TypeDropped  = "enrollment.dropped"
)

// EnrollmentEvent describes a committed enroll or drop.
type EnrollmentEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	StudentID  uint      `json:"student_id"`
	CourseCode string    `json:"course_id"`
	Backend    string    `json:"backend"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends enrollment events over NATS. A nil connection disables
// publishing, so the engine can run without a broker in development.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewPublisher constructs a publisher for the given subject.
func NewPublisher(nc *nats.Conn, subject string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		nc:      nc,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// EnrollmentChanged publishes the event, filling id and timestamp.
func (p *Publisher) EnrollmentChanged(event EnrollmentEvent) {
	if p == nil || p.nc == nil || p.subject == "" {
		return
	}

	event.ID = uuid.NewString()
	event.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("marshal enrollment event")
		return
	}
	if err := p.nc.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("type", event.Type).Msg("publish enrollment event")
	}
}
