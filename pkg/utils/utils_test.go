package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerFiresOnceWithLastValue(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls int32
	var last atomic.Value
	for _, q := range []string{"j", "ja", "jak", "jakarta"} {
		q := q
		d.Trigger(func(context.Context) {
			atomic.AddInt32(&calls, 1)
			last.Store(q)
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "jakarta", last.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls int32
	d.Trigger(func(context.Context) { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDebouncerCancelsRunningCall(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	started := make(chan context.Context, 1)
	d.Trigger(func(ctx context.Context) { started <- ctx })

	var first context.Context
	select {
	case first = <-started:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	require.NoError(t, first.Err())

	d.Trigger(func(context.Context) {})
	assert.ErrorIs(t, first.Err(), context.Canceled)

	d.Trigger(func(ctx context.Context) { started <- ctx })
	var second context.Context
	select {
	case second = <-started:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	d.Stop()
	assert.ErrorIs(t, second.Err(), context.Canceled)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=0&limit=500", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	p := GetPaginationParams(c)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset)
}

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 123, time.UTC)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?before="+FormatCursor(ts), nil)
	c := e.NewContext(req, httptest.NewRecorder())

	got := GetCursorParam(c, "before")
	require.NotNil(t, got)
	assert.True(t, ts.Equal(*got))
}

func TestIsAllowedImageType(t *testing.T) {
	cases := map[string]bool{
		"image/jpeg":               true,
		"image/PNG":                true,
		"image/webp; charset=utf8": true,
		"image/svg+xml":            false,
		"image/gif":                false,
		"text/html":                false,
		"":                         false,
	}
	for contentType, want := range cases {
		assert.Equal(t, want, IsAllowedImageType(contentType), contentType)
	}
}
