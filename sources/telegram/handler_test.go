package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestSurfaceRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		chatID    int64
		messageID int
	}{
		{"group chat", -1001234567890, 42},
		{"private chat", 7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatID, messageID, ok := splitSurface(surfaceOf(tt.chatID, tt.messageID))
			if !ok || chatID != tt.chatID || messageID != tt.messageID {
				t.Errorf("round trip = (%d, %d, %v)", chatID, messageID, ok)
			}
		})
	}
}

func TestSplitSurfaceRejectsMalformed(t *testing.T) {
	for _, surface := range []string{"", "7", "a:b", "7:", ":100"} {
		if _, _, ok := splitSurface(surface); ok {
			t.Errorf("splitSurface(%q) accepted malformed input", surface)
		}
	}
}

func TestSenderOf(t *testing.T) {
	withSender := tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 7}}}
	if user, ok := senderOf(withSender); !ok || user.ID != 7 {
		t.Errorf("sender = %+v, ok = %v", user, ok)
	}

	// anonymous channel posts forwarded into a group carry no From user
	anonymous := tgbotapi.Update{Message: &tgbotapi.Message{}}
	if _, ok := senderOf(anonymous); ok {
		t.Error("expected no sender for a message without a From user")
	}

	edited := tgbotapi.Update{EditedMessage: &tgbotapi.Message{From: &tgbotapi.User{ID: 9}}}
	if user, ok := senderOf(edited); !ok || user.ID != 9 {
		t.Errorf("edited sender = %+v, ok = %v", user, ok)
	}
}
