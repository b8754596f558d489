package service

import (
	"context"
	"fmt"
	"strings"

	places "cloud.google.com/go/maps/places/apiv1"
	"cloud.google.com/go/maps/places/apiv1/placespb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/metadata"

	"marketly/internal/domain/entity"
	"marketly/pkg/logger"
)

const detailsFieldMask = "id,formattedAddress,location"

type PlacesService interface {
	Autocomplete(ctx context.Context, query string) ([]entity.PlacePrediction, error)
	Details(ctx context.Context, placeID string) (*entity.PlaceDetails, error)
}

// placesAPI is the part of the Places (New) client we call.
type placesAPI interface {
	AutocompletePlaces(ctx context.Context, req *placespb.AutocompletePlacesRequest, opts ...gax.CallOption) (*placespb.AutocompletePlacesResponse, error)
	GetPlace(ctx context.Context, req *placespb.GetPlaceRequest, opts ...gax.CallOption) (*placespb.Place, error)
	Close() error
}

type GooglePlacesService struct {
	client placesAPI
	region string
}

func NewGooglePlacesService(ctx context.Context, apiKey, region string) (*GooglePlacesService, error) {
	client, err := places.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %v", err)
	}
	return &GooglePlacesService{client: client, region: region}, nil
}

func (s *GooglePlacesService) Close() error {
	return s.client.Close()
}

func (s *GooglePlacesService) Autocomplete(ctx context.Context, query string) ([]entity.PlacePrediction, error) {
	req := &placespb.AutocompletePlacesRequest{Input: query}
	if s.region != "" {
		req.IncludedRegionCodes = []string{s.region}
	}

	resp, err := s.client.AutocompletePlaces(ctx, req)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Places autocomplete failed for %q: %v", query, err)
		}
		return nil, fmt.Errorf("places autocomplete: %w", err)
	}

	predictions := make([]entity.PlacePrediction, 0, len(resp.GetSuggestions()))
	for _, suggestion := range resp.GetSuggestions() {
		p := suggestion.GetPlacePrediction()
		if p == nil {
			continue
		}
		predictions = append(predictions, entity.PlacePrediction{
			PlaceID:       p.GetPlaceId(),
			Description:   p.GetText().GetText(),
			MainText:      p.GetStructuredFormat().GetMainText().GetText(),
			SecondaryText: p.GetStructuredFormat().GetSecondaryText().GetText(),
		})
	}

	return predictions, nil
}

func (s *GooglePlacesService) Details(ctx context.Context, placeID string) (*entity.PlaceDetails, error) {
	name := placeID
	if !strings.HasPrefix(name, "places/") {
		name = "places/" + name
	}

	// GetPlace rejects calls without a field mask.
	ctx = metadata.AppendToOutgoingContext(ctx, "x-goog-fieldmask", detailsFieldMask)

	place, err := s.client.GetPlace(ctx, &placespb.GetPlaceRequest{Name: name})
	if err != nil {
		logger.Warn("Places details failed for %s: %v", placeID, err)
		return nil, fmt.Errorf("places details: %w", err)
	}

	id := place.GetId()
	if id == "" {
		id = strings.TrimPrefix(placeID, "places/")
	}

	return &entity.PlaceDetails{
		PlaceID:          id,
		FormattedAddress: place.GetFormattedAddress(),
		Lat:              place.GetLocation().GetLatitude(),
		Lng:              place.GetLocation().GetLongitude(),
	}, nil
}
