package usecase

import (
	"context"
	"strings"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/service"
	"marketly/pkg/errors"
)

const minAutocompleteLength = 2

type PlacesUseCase struct {
	places service.PlacesService
}

func NewPlacesUseCase(places service.PlacesService) *PlacesUseCase {
	return &PlacesUseCase{places: places}
}

// Autocomplete returns no predictions for queries shorter than two characters.
func (uc *PlacesUseCase) Autocomplete(ctx context.Context, query string) ([]entity.PlacePrediction, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minAutocompleteLength {
		return []entity.PlacePrediction{}, nil
	}
	if uc.places == nil {
		return nil, errors.Internal("Places lookup is not configured", nil)
	}

	predictions, err := uc.places.Autocomplete(ctx, query)
	if err != nil {
		return nil, errors.Internal("Failed to fetch place suggestions", err)
	}
	if predictions == nil {
		predictions = []entity.PlacePrediction{}
	}
	return predictions, nil
}

func (uc *PlacesUseCase) PlaceDetails(ctx context.Context, placeID string) (*entity.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, errors.BadRequest("Place id is required", nil)
	}
	if uc.places == nil {
		return nil, errors.Internal("Places lookup is not configured", nil)
	}

	details, err := uc.places.Details(ctx, placeID)
	if err != nil {
		return nil, errors.Internal("Failed to fetch place details", err)
	}
	return details, nil
}
