package mq

import (
	"context"
	"encoding/json"
	"log"

	"plateful/rdx"
)

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
}

// Emit publishes an entity event on the activity channel. Fire and
// forget; a dead redis never fails the request that produced the event.
func Emit(eventName string, content Index) error {
	if rdx.Conn == nil {
		return nil
	}
	payload, err := json.Marshal(content)
	if err != nil {
		return err
	}
	if err := rdx.Conn.Publish(context.Background(), "events:"+eventName, payload).Err(); err != nil {
		log.Printf("mq: publish %s failed: %v", eventName, err)
	}
	return nil
}
