package conversation

// Log is the ordered, append-only record of a conversation.
type Log struct {
	messages []Message
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{messages: make([]Message, 0)}
}

// Append adds a message to the end of the log.
func (l *Log) Append(m Message) {
	l.messages = append(l.messages, m)
}

// All returns the messages in order. The slice is a copy, so callers can
// render from it repeatedly without observing later appends.
func (l *Log) All() []Message {
	return append([]Message(nil), l.messages...)
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message, or false for an empty log.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
