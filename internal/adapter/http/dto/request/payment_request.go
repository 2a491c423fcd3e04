package request

import "encoding/json"

// PaymentCreateRequest wraps a Mercado Pago payment body. The body may also be
// posted bare; `mp_payload` is kept as-is to support varying provider schemas.
type PaymentCreateRequest struct {
	MPPayload json.RawMessage `json:"mp_payload"`
}
