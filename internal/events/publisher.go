package events

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"crm-backend/internal/models"
)

// Publisher emits msgpack-encoded lifecycle events onto the bus. Publishing
// is best-effort: a failed publish is logged, never surfaced to the request.
type Publisher struct {
	js     nats.JetStreamContext
	logger *zap.Logger
}

func NewPublisher(js nats.JetStreamContext, logger *zap.Logger) *Publisher {
	return &Publisher{js: js, logger: logger}
}

func (p *Publisher) LeadEvent(kind string, lead *models.Lead, actorID string) {
	p.publish(lead.OrgID, kind, models.LeadEvent{
		Kind:       kind,
		OrgID:      lead.OrgID,
		LeadID:     lead.ID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) MembershipEvent(kind, orgID, userID, email, role string) {
	p.publish(orgID, kind, models.MembershipEvent{
		Kind:       kind,
		OrgID:      orgID,
		UserID:     userID,
		Email:      email,
		Role:       role,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) publish(orgID, kind string, event any) {
	payload, err := msgpack.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", zap.String("kind", kind), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("crm.%s.events.%s", orgID, kind)
	if _, err := p.js.Publish(subject, payload); err != nil {
		p.logger.Warn("publish event", zap.String("subject", subject), zap.Error(err))
	}
}
