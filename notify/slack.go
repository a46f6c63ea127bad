package notify

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/nicopkrauss/talenttracker/model"
)

// Notifier receives overtime alerts. Implementations are fire-and-forget
// from the caller's point of view.
type Notifier interface {
	OvertimeAlert(rec *model.ShiftRecord, hours float64) error
}

// SlackNotifier posts overtime alerts to a supervisor channel.
type SlackNotifier struct {
	client    *slack.Client
	channelID string
}

func NewSlackNotifier(token, channelID string) *SlackNotifier {
	return &SlackNotifier{client: slack.New(token), channelID: channelID}
}

func (s *SlackNotifier) OvertimeAlert(rec *model.ShiftRecord, hours float64) error {
	message := fmt.Sprintf("Worker %s has been on shift %.1f hours (%s, %s), over the limit for role %s",
		rec.WorkerID, hours, rec.ID, rec.Status, rec.Role)

	_, _, err := s.client.PostMessage(
		s.channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}
