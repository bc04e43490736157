package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidPhone reports whether s is a plausible E.164-ish phone number.
// Spaces and dashes are stripped before matching.
func ValidPhone(s string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(s)
	return phoneRe.MatchString(cleaned)
}

// MaskEmail hides the middle of the local part: jo***hn@example.com style.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return email
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + "@" + domain
}

// MaskCard keeps the first and last four digits of a card number.
func MaskCard(card string) string {
	cleaned := strings.ReplaceAll(card, " ", "")
	if len(cleaned) < 8 {
		return card
	}
	return cleaned[:4] + " **** **** " + cleaned[len(cleaned)-4:]
}

// MaskID shortens an opaque ID for display and logs.
func MaskID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

// NewReference generates a client-side transaction reference used for
// optimistic entries before the server assigns an ID.
func NewReference() string {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:8])
}

// Date renders a timestamp the way the app's history list shows it.
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}
