package domain

import "time"

// ChatMessage is an immutable snapshot of one message read from a chat room.
type ChatMessage struct {
	ID             string
	AuthorID       string
	AuthorUsername string
	// AuthorGlobalName is the platform-wide display name, empty when the author has none.
	AuthorGlobalName string
	IsBot            bool
	// Pending marks a deferred interaction response the bot has not filled in yet.
	Pending          bool
	Timestamp        time.Time
	Text             string
	Attachments      []Attachment
	Embeds           []Embed
}

// Attachment is a file attached to a chat message. Its bytes are fetched lazily from URL.
type Attachment struct {
	Filename    string
	ContentType string
	URL         string
}

// Embed is a rich preview or bot-rendered card attached to a chat message.
type Embed struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Footer      string
	Color       int
	Fields      []EmbedField
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Interaction identifies a deferred slash-command interaction that replies are delivered to.
type Interaction struct {
	ID    string
	AppID string
	Token string
}

// Message is a single command invocation as received from a chat platform.
type Message struct {
	ID        string
	ChannelID string
	// GuildID is empty outside of guilds, e.g. in direct messages or on platforms without guilds.
	GuildID  string
	AuthorID string
	Username string
	// BotID is the platform identifier of this bot, used to recognise its own earlier replies.
	BotID       string
	Text        string
	Timestamp        time.Time
	ReplyTo     *ChatMessage
	Interaction *Interaction
}

// Prompt is a single request for the text generator. SystemInstruction is omitted from the request when empty.
type Prompt struct {
	SystemInstruction string
	Body              string
}

// Image is a binary image payload together with its MIME type.
type Image struct {
	Data     []byte
	MimeType string
}

// File is a binary attachment to be uploaded with a reply.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Reply is one outgoing message. Any combination of text, embed and file may be set.
type Reply struct {
	Text  string
	Embed *Embed
	File  *File
}

// Chunk is one part of a longer text split for paginated delivery.
type Chunk struct {
	Index int
	Total int
	Text  string
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)

type OptionType int

const (
	StringOption OptionType = iota
	IntegerOption
)

// CommandSpec describes a command for registration with a platform's slash-command directory.
type CommandSpec struct {
	Name        string
	Description string
	Options     []CommandOption
}

type CommandOption struct {
	Name        string
	Description string
	Type        OptionType
	Required    bool
	// MinValue and MaxValue bound integer options when non-zero.
	MinValue int
	MaxValue int
}
