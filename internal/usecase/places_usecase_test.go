package usecase

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketly/internal/domain/entity"
	"marketly/pkg/errors"
)

type fakePlaces struct {
	calls int
	err   error
}

func (p *fakePlaces) Autocomplete(ctx context.Context, query string) ([]entity.PlacePrediction, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return []entity.PlacePrediction{{PlaceID: "p1", Description: query + " City"}}, nil
}

func (p *fakePlaces) Details(ctx context.Context, placeID string) (*entity.PlaceDetails, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &entity.PlaceDetails{PlaceID: placeID}, nil
}

func TestAutocomplete_ShortQuerySkipsLookup(t *testing.T) {
	places := &fakePlaces{}
	uc := NewPlacesUseCase(places)

	out, err := uc.Autocomplete(context.Background(), " b ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, places.calls)

	out, err = uc.Autocomplete(context.Background(), "ba")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ba City", out[0].Description)
}

func TestPlaces_Failures(t *testing.T) {
	uc := NewPlacesUseCase(&fakePlaces{err: stderrors.New("upstream")})

	_, err := uc.Autocomplete(context.Background(), "bandung")
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))

	_, err = uc.PlaceDetails(context.Background(), "")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = NewPlacesUseCase(nil).PlaceDetails(context.Background(), "p1")
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
}
