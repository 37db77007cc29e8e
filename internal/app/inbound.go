package app

// Inbound is a chat message reduced to what the pipeline needs.
type Inbound struct {
	ChatID    int64
	MessageID int
	SenderID  int64
	// Username is the sender's handle without '@'; empty when unset.
	Username string
	// Command is the bot command without the slash, e.g. "start".
	Command string
	Payload Payload
}

// Payload is one of TextPayload, VoicePayload, AudioPayload or OtherPayload.
type Payload interface {
	payload()
}

// TextPayload is a plain text message.
type TextPayload struct {
	Text string
}

// VoicePayload is a recorded voice note.
type VoicePayload struct {
	FileID string
	MIME   string
}

// AudioPayload is an uploaded audio file.
type AudioPayload struct {
	FileID   string
	MIME     string
	FileName string
}

// OtherPayload is anything the bot does not turn into tasks.
type OtherPayload struct{}

func (TextPayload) payload()  {}
func (VoicePayload) payload() {}
func (AudioPayload) payload() {}
func (OtherPayload) payload() {}
