package service

import (
	"context"
	"errors"

	"github.com/fulldump/calorietracker/records"
)

var ErrorUnavailable = errors.New("temporary unavailable")
var ErrorRecordNotFound = errors.New("record not found")
var ErrorNoSelection = errors.New("no record selected")

type Record = records.Record

type Total struct {
	TotalCalories int `json:"total_calories"`
	Records       int `json:"records"`
}

type Status struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Servicer interface {
	Status() *Status
	List() ([]Record, error)
	Get(id int) (*Record, error)
	Add(ctx context.Context, name, calories string) (*Record, error)
	Select(id int) (*Record, error)
	Current() (*Record, error)
	Deselect() error
	UpdateCurrent(ctx context.Context, name, calories string) (*Record, error)
	Remove(ctx context.Context, id int) error
	Clear(ctx context.Context) error
	Total() (*Total, error)
	Find(filter map[string]any, skip, limit int64, f func(record Record)) error
}
