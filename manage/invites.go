// Package manage habours the headless admin listing services.
package manage

import (
	"context"
	"time"

	"github.com/pbartela/plantour/db"
	"go.uber.org/zap"
)

type InviteService struct {
	store *db.DataStore
	log   *zap.Logger
}

// List returns a paginated, FIQL-filterable invitation listing
func (i *InviteService) List(
	ctx context.Context,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	invitations, total, err := i.store.Invitations(
		ctx,
		db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort},
	)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	dtos := make([]*InvitationDTO, 0, len(invitations))
	for _, v := range invitations {
		dtos = append(dtos, invitationDTOfromDB(v, now))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

func NewInviteService(store *db.DataStore, log *zap.Logger) *InviteService {
	return &InviteService{
		store: store,
		log:   log,
	}
}
