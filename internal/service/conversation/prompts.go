package conversation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// Reply texts carry display markup (line breaks, emoji) that the transport
// passes through unmodified to the end-user surface.

const (
	promptAskName = "Hi there! 👋 Welcome to VivahDesk.\nWhat's your name?"

	promptOtherEvent = "No problem! ✨\nWhat kind of event are you planning?"

	promptAlreadyBooked = "Your call is already booked ✅\n" +
		"If you want to start over, refresh the page to begin a new session."
)

var eventMenu = strings.Join([]string{
	"1️⃣ Wedding",
	"2️⃣ Reception",
	"3️⃣ Mehendi",
	"4️⃣ Sangeet",
	"5️⃣ Engagement",
	"6️⃣ Other",
}, "\n")

func promptEventMenu(name string) string {
	return fmt.Sprintf("Nice to meet you, %s! 😊\nWhat are you mainly planning now?\n%s", name, eventMenu)
}

func promptEventMenuRetry() string {
	return "Please reply with a number from 1 to 6 🙂\n" + eventMenu
}

func promptLocation(eventType string) string {
	return fmt.Sprintf("Got it, %s 🎉\nWhich city or venue is the event happening in?", eventType)
}

func promptDate(location string) string {
	return fmt.Sprintf("Lovely, %s it is! 📍\nWhen is the event? Please share a date (e.g. 14 Feb 2026).", location)
}

func promptSlotMenu() string {
	var b strings.Builder
	b.WriteString("Perfect! Let's book your free call with our Wedding Event Expert.\n\nAvailable slots (IST):\n")
	codes := make([]string, 0, len(lead.TimeSlots))
	for code := range lead.TimeSlots {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(&b, "%s — %s\n", code, lead.TimeSlots[code])
	}
	b.WriteString("\nReply with a number from 1 to 9 to choose your slot.")
	return b.String()
}

func promptSlotRetry() string {
	return "Please reply with a number from 1 to 9 to pick your slot 🙂"
}

func promptConfirmation(s *lead.Session) string {
	return fmt.Sprintf(
		"✅ All set, %s!\nYour free consultation call is booked.\n\n"+
			"📅 Date: %s\n⏰ Time: %s (IST)\n📍 Location: %s\n🎉 Event: %s\n\n"+
			"Our expert will contact you at the scheduled time. 💐",
		s.Name, s.Date, s.TimeSlot, s.Location, s.EventType,
	)
}
