package service

import "time"

// motivationalQuotes is the fixed set rotated on the dashboard.
var motivationalQuotes = []string{
	"The secret of getting ahead is getting started.",
	"The only way to do great work is to love what you do.",
	"Believe you can and you're halfway there.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"The future belongs to those who believe in the beauty of their dreams.",
	"Don't watch the clock; do what it does. Keep going.",
	"The harder you work for something, the greater you'll feel when you achieve it.",
	"Dream bigger. Do bigger.",
	"Your limitation is only your imagination.",
}

// QuoteOfDay returns the quote for the calendar day of t. Every user
// sees the same quote on a given day; nothing is persisted.
func QuoteOfDay(t time.Time) string {
	return motivationalQuotes[t.YearDay()%len(motivationalQuotes)]
}
