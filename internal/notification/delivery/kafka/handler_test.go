package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/kafka"
)

type recorder struct {
	lowStock []inventorydomain.LowStockAlert
	expiry   []inventorydomain.ExpiryAlert
}

func (r *recorder) NotifyLowStock(_ context.Context, a inventorydomain.LowStockAlert) error {
	r.lowStock = append(r.lowStock, a)
	return nil
}

func (r *recorder) NotifyExpiry(_ context.Context, a inventorydomain.ExpiryAlert) error {
	r.expiry = append(r.expiry, a)
	return nil
}

func message(t *testing.T, event kafka.StockAlertEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{EventType: kafka.EventTypeStockAlert, EventID: "evt-1", Payload: payload}
}

func TestStockAlertHandler(t *testing.T) {
	expiry := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		event        kafka.StockAlertEvent
		wantErr      bool
		wantLowStock int
		wantExpiry   inventorydomain.ExpiryStatus
	}{
		{
			name:         "low stock",
			event:        kafka.StockAlertEvent{Kind: kafka.AlertLowStock, ProductID: 1, Quantity: 2, MinStockLevel: 5},
			wantLowStock: 1,
		},
		{
			name:       "expired",
			event:      kafka.StockAlertEvent{Kind: kafka.AlertExpired, ProductID: 2, ExpiryDate: &expiry},
			wantExpiry: inventorydomain.ExpiryExpired,
		},
		{
			name:       "near expiry",
			event:      kafka.StockAlertEvent{Kind: kafka.AlertNearExpiry, ProductID: 3, ExpiryDate: &expiry},
			wantExpiry: inventorydomain.ExpiryNearExpiry,
		},
		{
			name:    "expiry without date",
			event:   kafka.StockAlertEvent{Kind: kafka.AlertExpired, ProductID: 4},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			event:   kafka.StockAlertEvent{Kind: "overstock", ProductID: 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			err := NewStockAlertHandler(r).Handle(context.Background(), message(t, tt.event))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(r.lowStock) != tt.wantLowStock {
				t.Errorf("low stock calls = %d, want %d", len(r.lowStock), tt.wantLowStock)
			}
			if tt.wantExpiry != "" {
				if len(r.expiry) != 1 || r.expiry[0].Status != tt.wantExpiry || !r.expiry[0].ExpiryDate.Equal(expiry) {
					t.Errorf("expiry calls = %+v", r.expiry)
				}
			}
		})
	}
}

func TestStockAlertHandlerRejectsGarbage(t *testing.T) {
	err := NewStockAlertHandler(&recorder{}).Handle(context.Background(), kafka.Message{Payload: []byte("{")})
	if err == nil {
		t.Fatal("expected a decode error")
	}
}
