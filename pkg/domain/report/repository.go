package report

import "context"

type Repository interface {
	Save(ctx context.Context, report *Report) error
	List(ctx context.Context) ([]*Report, error)
}
