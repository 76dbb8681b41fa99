package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat modes supported by the widget.
const (
	ModeNormal   = "normal"
	ModeAcademic = "academic"
)

type ChatRequest struct {
	Message        string `json:"message" binding:"required,min=1,max=2000"`
	Mode           string `json:"mode,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SourceReference points the widget at the chunk a reply was grounded on.
type SourceReference struct {
	Title          string  `bson:"title" json:"title"`
	Chapter        string  `bson:"chapter" json:"chapter"`
	Snippet        string  `bson:"snippet" json:"snippet"`
	RelevanceScore float64 `bson:"relevance_score,omitempty" json:"relevance_score,omitempty"`
}

type ChatResponse struct {
	Reply          string            `json:"reply"`
	Sources        []SourceReference `json:"sources"`
	Mode           string            `json:"mode"`
	ConversationID string            `json:"conversation_id"`
	Timestamp      time.Time         `json:"timestamp"`
}

// Message is one stored question/reply exchange in the messages collection.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	Message        string             `bson:"message" json:"message"`
	Reply          string             `bson:"reply" json:"reply"`
	Mode           string             `bson:"mode" json:"mode"`
	Sources        []SourceReference  `bson:"sources,omitempty" json:"sources,omitempty"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
}
