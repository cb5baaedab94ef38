package manage

import (
	"context"

	"github.com/pbartela/plantour/db"
	"go.uber.org/zap"
)

type TourService struct {
	store *db.DataStore
	log   *zap.Logger
}

// List returns a paginated, FIQL-filterable tour listing
func (t *TourService) List(
	ctx context.Context,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	tours, total, err := t.store.Tours(
		ctx,
		db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort},
	)
	if err != nil {
		return nil, err
	}
	dtos := make([]*TourDTO, 0, len(tours))
	for _, v := range tours {
		dtos = append(dtos, tourDTOfromDB(v))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

func NewTourService(store *db.DataStore, log *zap.Logger) *TourService {
	return &TourService{
		store: store,
		log:   log,
	}
}
