package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateMeetingLink builds a room URL unique to the booking.
func GenerateMeetingLink(baseURL string, bookingID uuid.UUID) (MeetingLink, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return MeetingLink{}, fmt.Errorf("meeting room suffix: %w", err)
	}
	room := fmt.Sprintf("service_%s_%s", bookingID.String(), hex.EncodeToString(buf[:]))
	return NewMeetingLink(strings.TrimRight(baseURL, "/") + "/" + room)
}
