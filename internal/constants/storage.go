package constants

// Keys used in the local key-value store. Each key holds one JSON document
// that is overwritten in full on every write.
const (
	KeyConversations  = "conversations"
	KeyJournalEntries = "journal_entries"
	KeyCheckinValues  = "checkin_values"
	KeyFirstVisitSeen = "first_visit_seen"
)
