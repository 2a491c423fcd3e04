package payments

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"restoredoc/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"
)

var (
	ErrMissingMercadoPagoAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
)

type paymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

// MercadoPagoGateway charges customers through the Mercado Pago payments API.
// Mock mode is decided by the payment use case, so this type always talks
// to the provider.
type MercadoPagoGateway struct {
	client paymentCreator
	logger *zap.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string, logger *zap.Logger) (*MercadoPagoGateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mercadopago")
	if accessToken == "" {
		logger.Warn("missing access token")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Error("sdk config failed", zap.Error(err))
		return nil, err
	}
	logger.Info("client initialized")
	return &MercadoPagoGateway{client: payment.NewClient(cfg), logger: logger}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error) {
	if g == nil || g.client == nil {
		return "", "", nil, ErrMercadoPagoGatewayNotConfigured
	}
	g.logger.Debug("create start", zap.Int("payload_len", len(requestPayload)))

	var req payment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		g.logger.Warn("payload unmarshal failed", zap.Error(err))
		return "", "", nil, err
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		g.logger.Error("sdk create failed", zap.Error(err))
		return "", "", nil, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	id := strconv.Itoa(resp.ID)
	g.logger.Info("create success",
		zap.String("provider_payment_id", id),
		zap.String("provider_status", resp.Status),
		zap.String("status_detail", resp.StatusDetail))
	return id, resp.Status, b, nil
}
