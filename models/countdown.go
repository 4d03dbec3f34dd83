package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Countdown holds the structure for the countdowns collection in mongo
type Countdown struct {
	Key       string             `json:"_id" bson:"_id"`
	Value     string             `json:"value" bson:"value"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
