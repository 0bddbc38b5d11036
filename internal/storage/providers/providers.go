package providers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Providers struct {
	db               *pgxpool.Pool
	SurveyProvider   *SurveyProvider
	ResponseProvider *ResponseProvider
}

// Store joins the survey and response readers into the single read model the
// analytics services consume.
type Store struct {
	*SurveyProvider
	*ResponseProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		db:               db,
		SurveyProvider:   NewSurveyProvider(db),
		ResponseProvider: NewResponseProvider(db),
	}
}

func (p *Providers) Store() Store {
	return Store{SurveyProvider: p.SurveyProvider, ResponseProvider: p.ResponseProvider}
}

func (p *Providers) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
