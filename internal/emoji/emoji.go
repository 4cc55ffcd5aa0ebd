package emoji

import "sync/atomic"

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"camera":     {"📷", "[CAM]"},
	"flash":      {"📸", "[SNAP]"},
	"countdown":  {"⏱️", "[T]"},
	"auto":       {"🔁", "[AUTO]"},
	"sparkles":   {"✨", "[*]"},
	"palette":    {"🎨", "[COL]"},
	"rainbow":    {"🌈", "[GRAD]"},
	"frame":      {"🖼️", "[IMG]"},
	"download":   {"💾", "[SAVE]"},
	"retake":     {"🔄", "[RE]"},
	"undo":       {"↩️", "[UNDO]"},
	"trash":      {"🗑️", "[DEL]"},
	"statistics": {"📊", "[STATS]"},
	"folder":     {"📁", "[DIR]"},
	"target":     {"🎯", "[>]"},
	"help":       {"❓", "[?]"},
	"door":       {"🚪", "[EXIT]"},
	"party":      {"🎉", "[!]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	return Get(key, !emojiDisabled.Load())
}

// Get returns the emoji for key, or its fallback when enabled is false
func Get(key string, enabled bool) string {
	if mapping, exists := emojiMap[key]; exists {
		if !enabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// Prefix returns the emoji followed by a space, for labels
func Prefix(key string) string {
	return GetEmoji(key) + " "
}
