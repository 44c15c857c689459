package lead

// EventTypes maps menu codes "1".."5" to the fixed event labels offered at
// the event-type step. Code "6" is the custom-event detour and has no entry.
var EventTypes = map[string]string{
	"1": "Wedding",
	"2": "Reception",
	"3": "Mehendi",
	"4": "Sangeet",
	"5": "Engagement",
}

// OtherEventCode selects the free-form custom-event branch.
const OtherEventCode = "6"

// TimeSlots maps slot codes "1".."9" to the nine fixed hourly consultation
// windows. Display text only; nothing downstream parses these.
var TimeSlots = map[string]string{
	"1": "11:00 AM – 12:00 PM",
	"2": "12:00 PM – 1:00 PM",
	"3": "1:00 PM – 2:00 PM",
	"4": "2:00 PM – 3:00 PM",
	"5": "3:00 PM – 4:00 PM",
	"6": "4:00 PM – 5:00 PM",
	"7": "5:00 PM – 6:00 PM",
	"8": "6:00 PM – 7:00 PM",
	"9": "7:00 PM – 8:00 PM",
}
