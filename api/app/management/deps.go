package management

import (
	"context"

	"github.com/pbartela/plantour/manage"
)

// Lister enables querrying paginated
// lists from the underlying datasource
type Lister interface {
	List(
		ctx context.Context,
		page int,
		pageSize int,
		q string,
		sort string,
	) (*manage.PaginationResponse, error)
}
