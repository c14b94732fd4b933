package paystack

import "encoding/json"

// Webhook event types this service reacts to.
const (
	EventChargeSuccess   = "charge.success"
	EventChargeFailed    = "charge.failed"
	EventTransferSuccess = "transfer.success"
	EventTransferFailed  = "transfer.failed"
)

// WebhookEvent is the outer shape of every Paystack webhook delivery.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChargeData is the subset of charge/transfer payloads we reconcile on.
type ChargeData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// ParseWebhook decodes a raw webhook body.
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ChargeData extracts the charge payload from the event body.
func (e *WebhookEvent) ChargeData() (*ChargeData, error) {
	var data ChargeData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
