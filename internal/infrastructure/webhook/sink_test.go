package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/documents/sale"
	"orfebre/pkg/config"
)

func testSale() *sale.Sale {
	s := sale.New()
	s.Number = "V-00042"
	s.CustomerName = "Rosa Quispe"
	s.PaymentMethod = sale.PaymentYape
	s.Total = types.MustMoney("137.70")
	s.Lines = []sale.Line{
		{
			ID:        id.New(),
			ProductID: id.New(),
			Quantity:  3,
			UnitPrice: types.MustMoney("45.90"),
			Subtotal:  types.MustMoney("137.70"),
		},
	}
	return s
}

func TestSaleSink_DeliverSale(t *testing.T) {
	var received salePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewSaleSink(config.WebhookConfig{SaleURL: srv.URL, Timeout: time.Second})
	require.NotNil(t, sink)

	doc := testSale()
	require.NoError(t, sink.DeliverSale(context.Background(), doc))

	assert.Equal(t, "V-00042", received.Numero)
	assert.Equal(t, "yape", received.MedioPago)
	assert.Equal(t, "Rosa Quispe", received.Cliente)
	assert.True(t, received.Total.Equal(types.MustMoney("137.70")))
	require.Len(t, received.Detalles, 1)
	assert.Equal(t, int64(3), received.Detalles[0].Cantidad)
	assert.True(t, received.Detalles[0].PrecioUnitario.Equal(types.MustMoney("45.90")))
}

func TestSaleSink_DeliverSale_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewSaleSink(config.WebhookConfig{SaleURL: srv.URL, Timeout: time.Second})

	err := sink.DeliverSale(context.Background(), testSale())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeExternalSink, appErr.Code)
}

func TestSaleSink_DeliverSale_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	sink := NewSaleSink(config.WebhookConfig{SaleURL: srv.URL, Timeout: time.Second})

	err := sink.DeliverSale(context.Background(), testSale())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeExternalSink, appErr.Code)
}

func TestNewSaleSink_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewSaleSink(config.WebhookConfig{}))
}
