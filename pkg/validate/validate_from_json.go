package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// DecodeRequest - строгий разбор запроса на заказ: неизвестные поля и
// данные после объекта считаются ошибкой формата (*domain.InvalidRequestError).
func DecodeRequest(raw []byte) (*domain.PlaceOrderRequest, error) {
	var req domain.PlaceOrderRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, invalid("body", "invalid json: "+err.Error())
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, invalid("body", "invalid json: trailing data")
	}
	return &req, nil
}

// ValidateRequestFromJSON - разбор и нормализация запроса из JSON.
func ValidateRequestFromJSON(ctx context.Context, validator ports.RequestValidator, raw []byte) (*domain.PlaceOrderRequest, error) {
	req, err := DecodeRequest(raw)
	if err != nil {
		return nil, err
	}
	return validator.Normalize(ctx, req)
}
