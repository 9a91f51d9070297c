package telegram

import (
	"complaintdedup/backend/internal/models"
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSender is a mock implementation of the Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func duplicateComplaint() *models.Complaint {
	return &models.Complaint{
		ID:            "dup-1",
		CustomerEmail: "a_b@x.com",
		Subject:       "Broken item",
		Category:      "product",
	}
}

func TestDuplicateMessage(t *testing.T) {
	text := DuplicateMessage(duplicateComplaint(), "orig-1")

	assert.Contains(t, text, "Repeated complaint")
	assert.Contains(t, text, `a\_b@x.com`, "markdown characters in the email must be escaped")
	assert.Contains(t, text, "Broken item")
	assert.Contains(t, text, "`dup-1`")
	assert.Contains(t, text, "`orig-1`")
}

func TestNotifyDuplicate_SendsToChat(t *testing.T) {
	sender := new(MockSender)
	n := &Notifier{Bot: sender, ChatID: 42, log: zap.NewNop()}

	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 42 && msg.ParseMode == tgbotapi.ModeMarkdown && msg.LinkPreviewOptions.IsDisabled
	})).Return(tgbotapi.Message{}, nil).Once()

	err := n.NotifyDuplicate(context.Background(), duplicateComplaint(), "orig-1")

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNotifyDuplicate_SendError(t *testing.T) {
	sender := new(MockSender)
	n := &Notifier{Bot: sender, ChatID: 42, log: zap.NewNop()}
	sender.On("Send", mock.Anything).Return(tgbotapi.Message{}, errors.New("flood wait"))

	err := n.NotifyDuplicate(context.Background(), duplicateComplaint(), "orig-1")

	assert.ErrorContains(t, err, "flood wait")
}

func TestNotifyDuplicate_CancelledContext(t *testing.T) {
	sender := new(MockSender)
	n := &Notifier{Bot: sender, ChatID: 42, log: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.NotifyDuplicate(ctx, duplicateComplaint(), "orig-1")

	assert.ErrorIs(t, err, context.Canceled)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}
