package constants

// Check-in categories
const (
	CheckinMood   = "mood"
	CheckinEnergy = "energy"
	CheckinCycle  = "cycle"
)

// Journal moods
const (
	MoodHappy   = "Happy"
	MoodNeutral = "Neutral"
	MoodSad     = "Sad"
)
