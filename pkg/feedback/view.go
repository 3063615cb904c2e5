package feedback

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	SubtitleLength = 50
	MaxStars       = 5
	DefaultTitle   = "New feedback"
	DateLayout     = "1/2/2006"
)

var AvatarPalette = []string{"#686868", "#FF6B6B", "#4ECDC4", "#F9CA24", "#E056FD"}

// View holds the display fields derived from one item. It is rebuilt on
// every render and never stored.
type View struct {
	ID          string
	Avatar      string
	Initial     string
	Title       string
	Subtitle    string
	FullMessage string
	Stars       string
	Date        string
	Email       string
}

func Present(items []Item, now time.Time) []View {
	views := make([]View, 0, len(items))
	for i, it := range items {
		v := View{
			ID:          it.ID,
			Avatar:      AvatarColor(i),
			Initial:     Initial(it.Email),
			Title:       Title(it.Subject),
			Subtitle:    Subtitle(it.Message),
			FullMessage: it.Message,
			Stars:       Stars(it.Rating),
			Date:        FormatDate(it.CreatedAt, now),
		}
		if it.Email != nil {
			v.Email = *it.Email
		}
		views = append(views, v)
	}
	return views
}

// Subtitle keeps the first 50 characters of message, adding "..." only
// when something was cut.
func Subtitle(message string) string {
	if utf8.RuneCountInString(message) <= SubtitleLength {
		return message
	}
	runes := []rune(message)
	return string(runes[:SubtitleLength]) + "..."
}

// Stars renders floor(rating) filled stars padded with empty ones to five.
// An absent rating renders nothing.
func Stars(rating *float64) string {
	if rating == nil {
		return ""
	}
	filled := int(math.Floor(*rating))
	if filled < 0 {
		filled = 0
	}
	if filled > MaxStars {
		filled = MaxStars
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", MaxStars-filled)
}

// FormatDate formats the creation date. A missing createdAt renders as
// today's date.
func FormatDate(createdAt *time.Time, now time.Time) string {
	t := now
	if createdAt != nil {
		t = *createdAt
	}
	return t.Local().Format(DateLayout)
}

func Title(subject string) string {
	if subject == "" {
		return DefaultTitle
	}
	return subject
}

func AvatarColor(index int) string {
	if index < 0 {
		index = -index
	}
	return AvatarPalette[index%len(AvatarPalette)]
}

// Initial is the upper-cased first letter of the email, or "U".
func Initial(email *string) string {
	if email == nil || *email == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(*email)
	return string(unicode.ToUpper(r))
}
