package gold

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

type fakeFX struct {
	rate  float64
	err   error
	calls int
}

func (f *fakeFX) USDToGBP(ctx context.Context) (float64, error) {
	f.calls++
	return f.rate, f.err
}

func newMetalPriceServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMetalPriceInvertsRate(t *testing.T) {
	srv := newMetalPriceServer(t, http.StatusOK, `{"success":true,"base":"USD","timestamp":1769860800,"rates":{"XAU":0.0005,"GBP":0.8}}`)

	fx := &fakeFX{rate: 0.5}
	p := NewMetalPriceProvider("test-key", srv.URL, nil)
	p.fx = fx

	r, err := p.FetchReport(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, true, approx(r.USD.Ounce, 2000))
	assert.Equal(t, true, approx(r.USD.Gram, 2000/31.1035))
	assert.Equal(t, true, approx(r.USD.Kilo, 2000*32.1507))
	assert.Equal(t, true, approx(r.GBP.Ounce, 1600))
	assert.Equal(t, false, r.FXFallback)
	assert.Equal(t, 0, fx.calls)
	assert.Equal(t, int64(1769860800), r.Timestamp.Unix())
}

func TestMetalPriceUsesFXWhenGBPMissing(t *testing.T) {
	srv := newMetalPriceServer(t, http.StatusOK, `{"success":true,"rates":{"XAU":0.00025}}`)

	p := NewMetalPriceProvider("test-key", srv.URL, nil)
	p.fx = &fakeFX{rate: 0.75}

	r, err := p.FetchReport(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, true, approx(r.USD.Ounce, 4000))
	assert.Equal(t, true, approx(r.GBP.Ounce, 3000))
	assert.Equal(t, 0.75, r.USDToGBP)
}

func TestMetalPriceFXFailureFallsBack(t *testing.T) {
	srv := newMetalPriceServer(t, http.StatusOK, `{"success":true,"rates":{"XAU":0.0005}}`)

	p := NewMetalPriceProvider("test-key", srv.URL, nil)
	p.fx = &fakeFX{err: errors.New("fx down")}

	r, err := p.FetchReport(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, FallbackUSDToGBP, r.USDToGBP)
	assert.Equal(t, true, r.FXFallback)
	assert.Equal(t, true, approx(r.GBP.Ounce, 2000*0.79))
}

func TestMetalPriceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"quota flag in payload", http.StatusOK, `{"success":false,"error":{"code":104,"info":"Monthly API request limit reached"}}`, ErrQuota},
		{"too many requests", http.StatusTooManyRequests, `{}`, ErrQuota},
		{"server error", http.StatusInternalServerError, `oops`, ErrStatus},
		{"unsuccessful without quota", http.StatusOK, `{"success":false,"error":{"code":101,"info":"invalid key"}}`, ErrStatus},
		{"missing rate", http.StatusOK, `{"success":true,"rates":{}}`, ErrSchema},
		{"zero rate", http.StatusOK, `{"success":true,"rates":{"XAU":0}}`, ErrSchema},
		{"not json", http.StatusOK, `<html>`, ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMetalPriceServer(t, tt.status, tt.body)
			p := NewMetalPriceProvider("test-key", srv.URL, nil)

			r, err := p.FetchReport(context.Background())

			assert.Equal(t, true, r == nil)
			assert.Equal(t, true, errors.Is(err, tt.kind))

			var perr *ProviderError
			assert.Equal(t, true, errors.As(err, &perr))
			assert.Equal(t, SourceMetalPrice, perr.Provider)
		})
	}
}

func TestMetalPriceNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewMetalPriceProvider("test-key", srv.URL, nil)
	_, err := p.FetchReport(context.Background())

	assert.Equal(t, true, errors.Is(err, ErrNetwork))
}
