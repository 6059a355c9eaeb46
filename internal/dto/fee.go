package dto

import "github.com/ajmalakeel/tuition-center-api/internal/models"

// FeeBookResponse is the partitioned fee ledger with its aggregates.
type FeeBookResponse struct {
	Book   models.FeeBook   `json:"book"`
	Totals models.FeeTotals `json:"totals"`
}

// FeeReminder is a prepared guardian reminder: the bilingual message
// and the messaging deep link built from the guardian's phone number.
type FeeReminder struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}
