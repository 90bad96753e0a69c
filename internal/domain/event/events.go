// Package event определяет события движка и порт их публикации.
// События информационные: подписчики не влияют на фиксацию батча.
package event

import (
	"time"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

const (
	TypeProfileCreated           = "profile_created"
	TypeProfileUpdated           = "profile_updated"
	TypeProfileNFTAttached       = "profile_nft_attached"
	TypeJobCreated               = "job_created"
	TypeJobClosed                = "job_closed"
	TypeJobApplication           = "job_application"
	TypeApplicationStatusUpdated = "application_status_updated"
	TypeScoutOfferSent           = "scout_offer_sent"
	TypeScoutOfferResponded      = "scout_offer_responded"
	TypeContactRequestSent       = "contact_request_sent"
	TypeContactRequestProcessed  = "contact_request_processed"
)

// Event — одно событие движка. Payload сериализуется как есть.
type Event struct {
	Type    string          `json:"type"`
	Record  address.Address `json:"record"`
	Payload any             `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// Bus — порт публикации событий после успешного коммита батча.
type Bus interface {
	Publish(evt Event)
}

// NopBus игнорирует события; используется в тестах и когда ws выключен.
type NopBus struct{}

func (NopBus) Publish(Event) {}
