package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	tests := []struct {
		key      string
		disabled bool
		expected string
	}{
		{"camera", false, "📷"},
		{"camera", true, "[CAM]"},
		{"download", true, "[SAVE]"},
		{"missing", false, "[?]"},
		{"missing", true, "[?]"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			SetEmojiDisabled(tt.disabled)
			if got := GetEmoji(tt.key); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	SetEmojiDisabled(true)
	defer SetEmojiDisabled(false)

	if got := Prefix("flash"); got != "[SNAP] " {
		t.Errorf("Expected \"[SNAP] \", got %q", got)
	}
	if !IsEmojiDisabled() {
		t.Error("Expected emoji to be disabled")
	}
}

func TestGetIgnoresGlobalSetting(t *testing.T) {
	SetEmojiDisabled(true)
	defer SetEmojiDisabled(false)

	if got := Get("palette", true); got != "🎨" {
		t.Errorf("Expected 🎨, got %q", got)
	}
	if got := Get("palette", false); got != "[COL]" {
		t.Errorf("Expected [COL], got %q", got)
	}
}
