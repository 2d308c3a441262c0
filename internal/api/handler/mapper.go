package handler

import (
	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

// --- Domain → Response ---

func toUserResponse(a *domain.Account) userResponse {
	return userResponse{Email: a.Email, Name: a.Name}
}

func toReferenceResponse(r domain.Reference) referenceResponse {
	return referenceResponse{ID: r.ID, Name: r.Name}
}

func toReferenceResponses(refs []domain.Reference) []referenceResponse {
	out := make([]referenceResponse, len(refs))
	for i, r := range refs {
		out[i] = toReferenceResponse(r)
	}
	return out
}

func toPlaceResponse(p *domain.Place) placeResponse {
	return placeResponse{
		ID:      p.ID,
		Name:    p.Name,
		Country: idList(p.CountryIDs),
		State:   idList(p.StateIDs),
	}
}

func toPlaceDetailResponse(d *domain.PlaceDetail) placeDetailResponse {
	return placeDetailResponse{
		ID:      d.ID,
		Name:    d.Name,
		Country: toReferenceResponses(d.Countries),
		State:   toReferenceResponses(d.States),
	}
}

func idList(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// --- Request → Service input ---

func toCreatePlaceInput(req placeRequest) ports.CreatePlaceInput {
	var in ports.CreatePlaceInput
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Country != nil {
		in.CountryIDs = *req.Country
	}
	if req.State != nil {
		in.StateIDs = *req.State
	}
	return in
}

func toUpdatePlaceInput(id int64, req placeRequest, partial bool) ports.UpdatePlaceInput {
	return ports.UpdatePlaceInput{
		ID:         id,
		Name:       req.Name,
		CountryIDs: req.Country,
		StateIDs:   req.State,
		Partial:    partial,
	}
}
